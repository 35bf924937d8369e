package prompt

import (
	"strconv"
	"strings"
	"testing"

	"github.com/MikeSquared-Agency/advisor/internal/catalog"
)

func defaultCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Default()
	if err != nil {
		t.Fatalf("load default catalog: %v", err)
	}
	return c
}

func TestBuild_Deterministic(t *testing.T) {
	c := defaultCatalog(t)

	first, err := Build(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Build(c)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if again != first {
			t.Fatalf("directive changed on call %d", i+2)
		}
	}
}

func TestBuild_Sections(t *testing.T) {
	out, err := Build(defaultCatalog(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"You are the Internship Advisor",
		"---JSON START---",
		"---JSON END---",
		"case-insensitive",
		"Include the Title, Location, and Core Skills",
		"suggest alternative search terms",
		"Do not mention that you are an AI or that you are searching JSON",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("directive missing %q", want)
		}
	}

	start := strings.Index(out, "---JSON START---")
	end := strings.Index(out, "---JSON END---")
	if start < 0 || end < start {
		t.Fatal("dataset markers out of order")
	}
}

func TestBuild_EmbedsEveryPosting(t *testing.T) {
	c := defaultCatalog(t)
	out, err := Build(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, p := range c.Postings() {
		if !strings.Contains(out, `"title": "`+p.Title+`"`) {
			t.Errorf("directive missing posting %d title %q", p.ID, p.Title)
		}
	}
}

// "Remote marketing jobs." can only be answered if every remote marketing
// posting is present in the directive.
func TestBuild_RemoteMarketingCompleteness(t *testing.T) {
	c := defaultCatalog(t)
	out, err := Build(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var remoteMarketing int
	for _, p := range c.Postings() {
		if p.Sector != "Marketing" || p.Location != "Remote" {
			continue
		}
		remoteMarketing++
		block := "\"id\": " + strconv.Itoa(p.ID) + ",\n    \"title\": \"" + p.Title + "\",\n    \"skills\": \"" + p.Skills +
			"\",\n    \"location\": \"Remote\",\n    \"sector\": \"Marketing\""
		if !strings.Contains(out, block) {
			t.Errorf("directive missing remote marketing posting %d", p.ID)
		}
	}
	if remoteMarketing != 4 {
		t.Errorf("expected 4 remote marketing postings, got %d", remoteMarketing)
	}

	for _, title := range []string{"Marketing Intern", "Content Writer Intern", "SEO Intern", "Social Media Marketing Intern"} {
		if !strings.Contains(out, title) {
			t.Errorf("directive missing title %q", title)
		}
	}
	if strings.Count(out, `"title": "Content Writer Intern"`) != 3 {
		t.Errorf("expected three Content Writer Intern postings in the directive")
	}
}

func TestGreeting(t *testing.T) {
	g := Greeting(defaultCatalog(t))
	if !strings.Contains(g, "50 internship postings") {
		t.Errorf("greeting should state the catalog size, got %q", g)
	}
}
