package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/MikeSquared-Agency/advisor/internal/catalog"
)

// Schema creates the postings table used as an alternative catalog source.
const Schema = `
CREATE TABLE IF NOT EXISTS internship_postings (
	id       INTEGER PRIMARY KEY CHECK (id > 0),
	title    TEXT NOT NULL,
	skills   TEXT NOT NULL DEFAULT '',
	location TEXT NOT NULL DEFAULT '',
	sector   TEXT NOT NULL DEFAULT ''
)`

// Postings reads every posting ordered by id. It is called once at startup.
func (s *Store) Postings(ctx context.Context) ([]catalog.Posting, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, title, skills, location, sector
		FROM internship_postings
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query postings: %w", err)
	}

	postings, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (catalog.Posting, error) {
		var p catalog.Posting
		err := row.Scan(&p.ID, &p.Title, &p.Skills, &p.Location, &p.Sector)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan postings: %w", err)
	}
	return postings, nil
}

// LoadCatalog reads and validates the postings table as a catalog.
func (s *Store) LoadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	postings, err := s.Postings(ctx)
	if err != nil {
		return nil, err
	}
	c, err := catalog.New(postings)
	if err != nil {
		return nil, fmt.Errorf("postings table: %w", err)
	}
	return c, nil
}

// Migrate creates the postings table if needed.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("create internship_postings: %w", err)
	}
	return nil
}

// Seed upserts postings, e.g. the bundled catalog into an empty table.
func (s *Store) Seed(ctx context.Context, postings []catalog.Posting) error {
	batch := &pgx.Batch{}
	for _, p := range postings {
		batch.Queue(`
			INSERT INTO internship_postings (id, title, skills, location, sector)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO UPDATE
			SET title = EXCLUDED.title, skills = EXCLUDED.skills,
			    location = EXCLUDED.location, sector = EXCLUDED.sector`,
			p.ID, p.Title, p.Skills, p.Location, p.Sector)
	}
	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("seed postings: %w", err)
	}
	return nil
}
