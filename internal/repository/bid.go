package repository

import (
	"context"
	"time"

	"github.com/ErlanBelekov/printmarket/internal/domain"
	"github.com/shopspring/decimal"
)

// AcceptResult is everything a successful acceptance or assignment changed.
type AcceptResult struct {
	Bid      *domain.Bid // nil for a manual assignment
	Job      *domain.Job
	Rejected []*domain.Bid
}

// BidRepository owns bid persistence. CreatePending, Accept and Assign
// serialize on the job row, so cap, uniqueness and single-winner checks made
// inside them hold under concurrent callers. Resolve and ExpireStale touch a
// single bid and rely on a conditional update from pending instead.
type BidRepository interface {
	// CreatePending re-checks that the job is open, has fewer than maxPending
	// pending bids and no pending bid from the same printer, then inserts.
	CreatePending(ctx context.Context, bid *domain.Bid, maxPending int) (*domain.Bid, error)

	GetByID(ctx context.Context, id string) (*domain.Bid, error)

	// ListByJob returns bids on a job in creation order. Empty status = all.
	ListByJob(ctx context.Context, jobID string, status domain.BidStatus) ([]*domain.Bid, error)
	ListByJobAndBidder(ctx context.Context, jobID, bidderID string) ([]*domain.Bid, error)

	// Accept marks the bid accepted, assigns the job to its printer at the bid
	// amount, then rejects every sibling still pending. Fails with
	// ErrBidNotPending if the bid was resolved first, ErrJobAlreadyAssigned if
	// the job already has a printer.
	Accept(ctx context.Context, bidID string) (*AcceptResult, error)

	// Assign commits the job to printerID without a bid and rejects all pending bids.
	Assign(ctx context.Context, jobID, printerID string, finalCost decimal.NullDecimal) (*AcceptResult, error)

	// Resolve moves a pending bid to a terminal status with an update
	// conditioned on status pending. ErrBidNotPending otherwise.
	Resolve(ctx context.Context, bidID string, to domain.BidStatus) (*domain.Bid, error)

	// ExpireStale expires up to limit pending bids created before cutoff. Bids
	// resolved concurrently are skipped, not overwritten.
	ExpireStale(ctx context.Context, cutoff time.Time, limit int) ([]*domain.Bid, error)
}
