package memory

import (
	"context"
	"time"

	"github.com/ErlanBelekov/printmarket/internal/domain"
	"github.com/ErlanBelekov/printmarket/internal/repository"
	"github.com/shopspring/decimal"
)

type BidRepository struct {
	s *Store
}

func (r *BidRepository) CreatePending(_ context.Context, bid *domain.Bid, maxPending int) (*domain.Bid, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	j, ok := r.s.jobs[bid.JobID]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	if j.Assigned() {
		return nil, domain.ErrJobAlreadyAssigned
	}
	if !j.OpenForBids() {
		return nil, domain.ErrJobNotOpen
	}

	pending, duplicate := 0, false
	for _, id := range r.s.bidOrder {
		b := r.s.bids[id]
		if b.JobID != bid.JobID || !b.Pending() {
			continue
		}
		pending++
		duplicate = duplicate || b.PrinterID == bid.PrinterID
	}
	if pending >= maxPending {
		return nil, domain.ErrBidLimitReached
	}
	if duplicate {
		return nil, domain.ErrDuplicatePendingBid
	}

	c := cloneBid(bid)
	c.ID = newID()
	c.Status = domain.BidPending
	c.CreatedAt = r.s.now()
	c.ResolvedAt = nil
	r.s.bids[c.ID] = c
	r.s.bidOrder = append(r.s.bidOrder, c.ID)
	return cloneBid(c), nil
}

func (r *BidRepository) GetByID(_ context.Context, id string) (*domain.Bid, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.bids[id]
	if !ok {
		return nil, domain.ErrBidNotFound
	}
	return cloneBid(b), nil
}

func (r *BidRepository) ListByJob(_ context.Context, jobID string, status domain.BidStatus) ([]*domain.Bid, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*domain.Bid
	for _, id := range r.s.bidOrder {
		b := r.s.bids[id]
		if b.JobID == jobID && (status == "" || b.Status == status) {
			out = append(out, cloneBid(b))
		}
	}
	return out, nil
}

func (r *BidRepository) ListByJobAndBidder(_ context.Context, jobID, bidderID string) ([]*domain.Bid, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*domain.Bid
	for _, id := range r.s.bidOrder {
		b := r.s.bids[id]
		if b.JobID == jobID && b.BidderID == bidderID {
			out = append(out, cloneBid(b))
		}
	}
	return out, nil
}

func (r *BidRepository) Accept(_ context.Context, bidID string) (*repository.AcceptResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.bids[bidID]
	if !ok {
		return nil, domain.ErrBidNotFound
	}
	j, ok := r.s.jobs[b.JobID]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	if !b.Pending() {
		return nil, domain.ErrBidNotPending
	}
	if j.Assigned() {
		return nil, domain.ErrJobAlreadyAssigned
	}

	now := r.s.now()
	r.s.resolveLocked(b, domain.BidAccepted, now)

	pid := b.PrinterID
	j.PrinterID = &pid
	j.FinalCost = decimal.NewNullDecimal(b.Amount)
	j.Status = domain.JobMatched
	j.UpdatedAt = now

	rejected := r.s.rejectPendingLocked(j.ID, b.ID, now)
	return &repository.AcceptResult{Bid: cloneBid(b), Job: cloneJob(j), Rejected: rejected}, nil
}

func (r *BidRepository) Assign(_ context.Context, jobID, printerID string, finalCost decimal.NullDecimal) (*repository.AcceptResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	j, ok := r.s.jobs[jobID]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	if j.Assigned() {
		return nil, domain.ErrJobAlreadyAssigned
	}
	if j.Status != domain.JobPending {
		return nil, domain.ErrJobNotOpen
	}

	now := r.s.now()
	pid := printerID
	j.PrinterID = &pid
	j.FinalCost = finalCost
	j.Status = domain.JobMatched
	j.UpdatedAt = now

	rejected := r.s.rejectPendingLocked(j.ID, "", now)
	return &repository.AcceptResult{Job: cloneJob(j), Rejected: rejected}, nil
}

func (r *BidRepository) Resolve(_ context.Context, bidID string, to domain.BidStatus) (*domain.Bid, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.bids[bidID]
	if !ok {
		return nil, domain.ErrBidNotFound
	}
	if !b.Pending() {
		return nil, domain.ErrBidNotPending
	}
	r.s.resolveLocked(b, to, r.s.now())
	return cloneBid(b), nil
}

func (r *BidRepository) ExpireStale(_ context.Context, cutoff time.Time, limit int) ([]*domain.Bid, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	var expired []*domain.Bid
	for _, id := range r.s.bidOrder {
		if len(expired) == limit {
			break
		}
		b := r.s.bids[id]
		if b.Pending() && b.CreatedAt.Before(cutoff) {
			r.s.resolveLocked(b, domain.BidExpired, now)
			expired = append(expired, cloneBid(b))
		}
	}
	return expired, nil
}
