package matching

import (
	"sort"

	"github.com/ErlanBelekov/printmarket/internal/domain"
)

const (
	DefaultLimit = 10
	MaxLimit     = 50
)

// ClampLimit maps a caller-supplied limit into [1, MaxLimit], with
// non-positive values falling back to def.
func ClampLimit(limit, def int) int {
	if limit <= 0 {
		limit = def
	}
	return min(max(limit, 1), MaxLimit)
}

// Rank scores every candidate, drops incompatible ones (score 0), sorts by
// score descending and truncates to limit. Ties keep candidate order.
func (s *Scorer) Rank(job *domain.Job, candidates []*domain.Printer, limit int) []domain.MatchScore {
	scored := make([]domain.MatchScore, 0, len(candidates))
	for _, p := range candidates {
		m := s.Score(job, p)
		if m.Score <= 0 {
			continue
		}
		scored = append(scored, m)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

// FilterMinRating keeps printers rated at least minRating. Nil keeps everyone.
func FilterMinRating(printers []*domain.Printer, minRating *float64) []*domain.Printer {
	if minRating == nil {
		return printers
	}
	out := printers[:0:0]
	for _, p := range printers {
		if p.Rating >= *minRating {
			out = append(out, p)
		}
	}
	return out
}
