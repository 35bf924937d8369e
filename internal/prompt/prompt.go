// Package prompt renders the system directive sent ahead of every
// conversation. The whole catalog is embedded in it; the remote model does
// all of the matching.
package prompt

import (
	"fmt"
	"strings"

	"github.com/MikeSquared-Agency/advisor/internal/catalog"
)

// Build renders the persona, the full dataset and the behavioural rules.
// Output is byte-identical for the same catalog. Callers rebuild it per
// request.
func Build(c *catalog.Catalog) (string, error) {
	data, err := c.JSON()
	if err != nil {
		return "", fmt.Errorf("render dataset: %w", err)
	}

	var b strings.Builder
	b.Grow(len(directivePreamble) + len(data) + len(directiveRules))
	b.WriteString(directivePreamble)
	b.WriteString(data)
	b.WriteString(directiveRules)
	return b.String(), nil
}

// Greeting is the display-only opening message of a session.
func Greeting(c *catalog.Catalog) string {
	return fmt.Sprintf(greetingTemplate, c.Len())
}
