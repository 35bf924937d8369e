// Package catalog holds the immutable set of internship postings the advisor
// can talk about. It is loaded once at startup and never mutated.
package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

//go:embed postings.json
var defaultPostings []byte

var (
	ErrEmpty       = errors.New("catalog has no postings")
	ErrInvalidID   = errors.New("posting id must be a positive integer")
	ErrDuplicateID = errors.New("duplicate posting id")
	ErrNoTitle     = errors.New("posting has no title")
)

// Posting is a single internship record. Field order matches the JSON
// rendering embedded in the system directive.
type Posting struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Skills   string `json:"skills"` // space-separated tokens
	Location string `json:"location"`
	Sector   string `json:"sector"`
}

// Catalog is a read-only collection of postings, safe to share across sessions.
type Catalog struct {
	postings []Posting
}

// New validates postings and wraps a private copy of them.
func New(postings []Posting) (*Catalog, error) {
	if len(postings) == 0 {
		return nil, ErrEmpty
	}
	seen := make(map[int]struct{}, len(postings))
	for i, p := range postings {
		if p.ID <= 0 {
			return nil, fmt.Errorf("posting %d: %w (got %d)", i, ErrInvalidID, p.ID)
		}
		if _, ok := seen[p.ID]; ok {
			return nil, fmt.Errorf("posting %d: %w %d", i, ErrDuplicateID, p.ID)
		}
		seen[p.ID] = struct{}{}
		if strings.TrimSpace(p.Title) == "" {
			return nil, fmt.Errorf("posting id %d: %w", p.ID, ErrNoTitle)
		}
	}

	cp := make([]Posting, len(postings))
	copy(cp, postings)
	return &Catalog{postings: cp}, nil
}

// Parse decodes a JSON array of postings and validates it.
func Parse(data []byte) (*Catalog, error) {
	var postings []Posting
	if err := json.Unmarshal(data, &postings); err != nil {
		return nil, fmt.Errorf("decode postings: %w", err)
	}
	return New(postings)
}

// Default returns the catalog bundled with the binary.
func Default() (*Catalog, error) {
	return Parse(defaultPostings)
}

// LoadFile reads a catalog from a JSON file on disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog file %s: %w", path, err)
	}
	return c, nil
}

// Postings returns a copy of every posting in catalog order.
func (c *Catalog) Postings() []Posting {
	out := make([]Posting, len(c.postings))
	copy(out, c.postings)
	return out
}

func (c *Catalog) Len() int {
	return len(c.postings)
}

// JSON renders the catalog as 2-space indented JSON.
func (c *Catalog) JSON() (string, error) {
	b, err := json.MarshalIndent(c.postings, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal postings: %w", err)
	}
	return string(b), nil
}
