// Package matching scores how well a printer fits a job.
//
// The model is additive: material 30, location 25, rating 20, price 15,
// availability 10, plus an experience bonus. The total is capped at 100 after
// the bonus is added. A required material the printer lacks is a hard gate.
package matching

import (
	"fmt"

	"github.com/ErlanBelekov/printmarket/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	MaxScore = 100.0

	materialWeight     = 30.0
	locationWeight     = 25.0
	ratingWeight       = 20.0
	priceWeight        = 15.0
	availabilityWeight = 10.0
)

var (
	priceVeryCompetitive = decimal.RequireFromString("0.05")
	priceGood            = decimal.RequireFromString("0.10")
	priceFair            = decimal.RequireFromString("0.15")
)

// Scorer is pure: the same job and printer always give the same score.
type Scorer struct {
	location LocationSource
}

func NewScorer(location LocationSource) *Scorer {
	if location == nil {
		location = NotesLocation
	}
	return &Scorer{location: location}
}

func (s *Scorer) Score(job *domain.Job, printer *domain.Printer) domain.MatchScore {
	if job.Material != nil && *job.Material != "" && !printer.Supports(*job.Material) {
		return domain.MatchScore{
			Printer:       printer,
			Score:         0,
			Reasons:       []string{fmt.Sprintf("Does not support %s", *job.Material)},
			EstimatedCost: decimal.Zero,
		}
	}

	var (
		score   float64
		reasons []string
	)

	// No declared material is compatible by default.
	score += materialWeight
	if job.Material != nil && *job.Material != "" {
		reasons = append(reasons, fmt.Sprintf("Supports %s", *job.Material))
	}

	if sim := LocationSimilarity(s.location(job), printer.Location); sim > 0 {
		score += sim * locationWeight
		switch {
		case sim > 0.7:
			reasons = append(reasons, "Local printer")
		case sim > 0.3:
			reasons = append(reasons, "Regional printer")
		}
	}

	pts, label := ratingPoints(printer.Rating)
	score += pts
	if label != "" {
		reasons = append(reasons, fmt.Sprintf("%s (%.1f)", label, printer.Rating))
	}

	pts, label = pricePoints(printer.PricePerGram)
	score += pts
	if label != "" {
		reasons = append(reasons, label)
	}

	if printer.Status == domain.PrinterAvailable {
		score += availabilityWeight
		reasons = append(reasons, "Available now")
	}

	if bonus := experienceBonus(printer.CompletedJobs); bonus > 0 {
		score += bonus
		reasons = append(reasons, fmt.Sprintf("Experienced (%d jobs completed)", printer.CompletedJobs))
	}

	return domain.MatchScore{
		Printer:       printer,
		Score:         min(score, MaxScore),
		Reasons:       reasons,
		EstimatedCost: EstimateCost(job, printer),
	}
}

// EstimateCost is price-per-gram times the job's estimated weight, zero if unknown.
func EstimateCost(job *domain.Job, printer *domain.Printer) decimal.Decimal {
	if !job.EstimatedWeight.Valid {
		return decimal.Zero
	}
	return printer.PricePerGram.Mul(job.EstimatedWeight.Decimal)
}

func ratingPoints(rating float64) (float64, string) {
	switch {
	case rating >= 4.5:
		return ratingWeight, "Excellent rating"
	case rating >= 4.0:
		return 16, "Great rating"
	case rating >= 3.0:
		return 10, "Good rating"
	default:
		return 0, ""
	}
}

func pricePoints(perGram decimal.Decimal) (float64, string) {
	switch {
	case perGram.LessThanOrEqual(priceVeryCompetitive):
		return priceWeight, "Very competitive pricing"
	case perGram.LessThanOrEqual(priceGood):
		return 10.5, "Good pricing"
	case perGram.LessThanOrEqual(priceFair):
		return 6, "Fair pricing"
	default:
		return 0, ""
	}
}

func experienceBonus(completed int) float64 {
	switch {
	case completed >= 100:
		return 5
	case completed >= 50:
		return 3
	case completed >= 10:
		return 1
	default:
		return 0
	}
}
