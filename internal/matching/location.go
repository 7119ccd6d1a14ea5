package matching

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ErlanBelekov/printmarket/internal/domain"
)

// LocationSource extracts the job's location signal.
type LocationSource func(job *domain.Job) string

// NotesLocation reads the customer's free-text notes, the historical signal.
func NotesLocation(job *domain.Job) string { return job.Notes }

// FieldLocation reads the job's dedicated location field.
func FieldLocation(job *domain.Job) string { return job.Location }

// LocationSourceByName resolves MATCH_LOCATION_SOURCE.
func LocationSourceByName(name string) (LocationSource, error) {
	switch name {
	case "", "notes":
		return NotesLocation, nil
	case "location":
		return FieldLocation, nil
	default:
		return nil, fmt.Errorf("unknown location source %q", name)
	}
}

// LocationSimilarity compares two free-text locations in tiers:
// exact (case-insensitive) 1.0, containment 0.7, otherwise half the share of
// overlapping tokens.
func LocationSimilarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 0.7
	}

	ta, tb := tokenize(a), tokenize(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	matching := 0
	for _, x := range ta {
		for _, y := range tb {
			if x == y || strings.Contains(x, y) || strings.Contains(y, x) {
				matching++
				break
			}
		}
	}
	return 0.5 * float64(matching) / float64(max(len(ta), len(tb)))
}

func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == ','
	})
}
