package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/ErlanBelekov/printmarket/internal/domain"
	"github.com/ErlanBelekov/printmarket/internal/matching"
	"github.com/ErlanBelekov/printmarket/internal/metrics"
	"github.com/ErlanBelekov/printmarket/internal/repository"
)

// MatchUsecase ranks the live printer population for a job. It has no side
// effects and is safe to call repeatedly.
type MatchUsecase struct {
	jobs         repository.JobRepository
	printers     repository.PrinterRepository
	scorer       *matching.Scorer
	defaultLimit int
}

func NewMatchUsecase(
	jobs repository.JobRepository,
	printers repository.PrinterRepository,
	scorer *matching.Scorer,
	defaultLimit int,
) *MatchUsecase {
	if defaultLimit <= 0 {
		defaultLimit = matching.DefaultLimit
	}
	return &MatchUsecase{jobs: jobs, printers: printers, scorer: scorer, defaultLimit: defaultLimit}
}

func (u *MatchUsecase) FindMatches(ctx context.Context, jobID string, limit int) ([]domain.MatchScore, error) {
	defer observeMatch("default", time.Now())

	job, err := u.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}

	candidates, err := u.printers.Search(ctx, domain.PrinterFilter{Status: domain.PrinterAvailable})
	if err != nil {
		return nil, fmt.Errorf("search printers: %w", err)
	}

	metrics.MatchCandidates.Observe(float64(len(candidates)))
	return u.scorer.Rank(job, candidates, matching.ClampLimit(limit, u.defaultLimit)), nil
}

// FindMatchesWithCriteria narrows the pool in the directory query first, then
// drops printers below the minimum rating before scoring.
func (u *MatchUsecase) FindMatchesWithCriteria(ctx context.Context, jobID string, criteria domain.MatchCriteria, limit int) ([]domain.MatchScore, error) {
	defer observeMatch("criteria", time.Now())

	if criteria.MaxPrice.Valid && criteria.MaxPrice.Decimal.IsNegative() {
		return nil, domain.Invalid("max_price", "must not be negative")
	}
	if criteria.MinRating != nil && (*criteria.MinRating < 0 || *criteria.MinRating > 5) {
		return nil, domain.Invalid("min_rating", "must be between 0 and 5")
	}

	job, err := u.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}

	candidates, err := u.printers.Search(ctx, domain.PrinterFilter{
		Materials: normalizeMaterials(criteria.Materials),
		Location:  criteria.Location,
		MaxPrice:  criteria.MaxPrice,
		Status:    domain.PrinterAvailable,
	})
	if err != nil {
		return nil, fmt.Errorf("search printers: %w", err)
	}
	candidates = matching.FilterMinRating(candidates, criteria.MinRating)

	metrics.MatchCandidates.Observe(float64(len(candidates)))
	return u.scorer.Rank(job, candidates, matching.ClampLimit(limit, u.defaultLimit)), nil
}

// BestMatch returns nil without error when no printer is compatible.
func (u *MatchUsecase) BestMatch(ctx context.Context, jobID string) (*domain.MatchScore, error) {
	matches, err := u.FindMatches(ctx, jobID, 1)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}
	return &matches[0], nil
}

func observeMatch(query string, start time.Time) {
	metrics.MatchDuration.WithLabelValues(query).Observe(time.Since(start).Seconds())
}
