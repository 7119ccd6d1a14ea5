package repository

import (
	"context"

	"github.com/ErlanBelekov/printmarket/internal/domain"
)

type ListJobsInput struct {
	CustomerID string // empty = every customer
	OpenOnly   bool   // pending and unassigned
	Limit      int    // 0 = no limit
}

// JobRepository is the Job Record Store.
type JobRepository interface {
	Create(ctx context.Context, job *domain.Job) (*domain.Job, error)
	GetByID(ctx context.Context, id string) (*domain.Job, error)
	List(ctx context.Context, input ListJobsInput) ([]*domain.Job, error)

	// Cancel moves a pending or matched job to cancelled and rejects its pending
	// bids in the same transaction. Returns the bids that were rejected.
	Cancel(ctx context.Context, id string) (*domain.Job, []*domain.Bid, error)

	// Advance moves the job to status to only while it is still in from, and
	// fails with ErrInvalidTransition otherwise. Reaching completed also counts
	// the job against its printer in the same transaction.
	Advance(ctx context.Context, id string, from, to domain.JobStatus) (*domain.Job, error)
}
