package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/ErlanBelekov/printmarket/internal/domain"
	"github.com/ErlanBelekov/printmarket/internal/metrics"
	"github.com/ErlanBelekov/printmarket/internal/repository"
	"github.com/shopspring/decimal"
)

type BidUsecase struct {
	bids     repository.BidRepository
	jobs     repository.JobRepository
	printers repository.PrinterRepository
	notifier Notifier
}

func NewBidUsecase(
	bids repository.BidRepository,
	jobs repository.JobRepository,
	printers repository.PrinterRepository,
	notifier Notifier,
) *BidUsecase {
	return &BidUsecase{bids: bids, jobs: jobs, printers: printers, notifier: notifier}
}

type SubmitBidInput struct {
	JobID         string `validate:"required"`
	UserID        string `validate:"required"`
	PrinterID     string `validate:"required"`
	Amount        decimal.Decimal
	EstimatedDays int     `validate:"gt=0"`
	Notes         *string `validate:"omitempty,max=500"`
}

func (u *BidUsecase) Submit(ctx context.Context, input SubmitBidInput) (*domain.Bid, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if !input.Amount.IsPositive() {
		return nil, domain.Invalid("amount", "must be greater than 0")
	}
	if err := checkNumeric("amount", input.Amount, amountPrecision, amountScale); err != nil {
		return nil, err
	}

	job, err := u.jobs.GetByID(ctx, input.JobID)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	if job.CustomerID == input.UserID {
		return nil, domain.ErrCannotBidOwnJob
	}
	if job.Assigned() {
		recordConflict(domain.ErrJobAlreadyAssigned)
		return nil, domain.ErrJobAlreadyAssigned
	}

	owned, err := u.printers.ListByOwner(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("list printers: %w", err)
	}
	if len(owned) == 0 {
		return nil, domain.ErrNotPrinterOwner
	}
	if !ownsPrinter(owned, input.PrinterID) {
		if _, err := u.printers.GetByID(ctx, input.PrinterID); err != nil {
			return nil, fmt.Errorf("get printer: %w", err)
		}
		return nil, domain.ErrPrinterNotOwned
	}

	// Cap and uniqueness are re-checked under the job lock.
	bid, err := u.bids.CreatePending(ctx, &domain.Bid{
		JobID:         job.ID,
		PrinterID:     input.PrinterID,
		BidderID:      input.UserID,
		Amount:        input.Amount,
		EstimatedDays: input.EstimatedDays,
		Notes:         input.Notes,
	}, domain.MaxPendingBidsPerJob)
	if err != nil {
		recordConflict(err)
		return nil, fmt.Errorf("create bid: %w", err)
	}

	metrics.BidsSubmittedTotal.Inc()
	u.notifier.Emit(domain.NewBidNotification(job, bid))
	return bid, nil
}

type BidView struct {
	Bid     *domain.Bid
	Printer *domain.PrinterProfile // customer view only
}

type BidListing struct {
	Bids []BidView
	// Total is the number of pending bids in the customer view,
	// len(Bids) otherwise.
	Total    int
	Customer bool
}

// List is role-sensitive. The job's customer sees the three cheapest pending
// bids with printer profiles. Anyone else sees only their own bids, in any status.
func (u *BidUsecase) List(ctx context.Context, jobID, userID string) (*BidListing, error) {
	job, err := u.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}

	if job.CustomerID != userID {
		own, err := u.bids.ListByJobAndBidder(ctx, jobID, userID)
		if err != nil {
			return nil, fmt.Errorf("list own bids: %w", err)
		}
		views := make([]BidView, len(own))
		for i, b := range own {
			views[i] = BidView{Bid: b}
		}
		return &BidListing{Bids: views, Total: len(views)}, nil
	}

	pending, err := u.bids.ListByJob(ctx, jobID, domain.BidPending)
	if err != nil {
		return nil, fmt.Errorf("list pending bids: %w", err)
	}
	total := len(pending)

	domain.SortForCustomer(pending)
	if len(pending) > domain.CustomerBidViewSize {
		pending = pending[:domain.CustomerBidViewSize]
	}

	views := make([]BidView, 0, len(pending))
	for _, b := range pending {
		p, err := u.printers.GetByID(ctx, b.PrinterID)
		if err != nil {
			return nil, fmt.Errorf("get bid printer: %w", err)
		}
		profile := p.Profile()
		views = append(views, BidView{Bid: b, Printer: &profile})
	}

	return &BidListing{Bids: views, Total: total, Customer: true}, nil
}

// Accept commits the job to the bid's printer and rejects every other
// pending bid on the job. At most one bid per job can ever win.
func (u *BidUsecase) Accept(ctx context.Context, bidID, userID string) (*domain.Bid, *domain.Job, error) {
	bid, err := u.bids.GetByID(ctx, bidID)
	if err != nil {
		return nil, nil, fmt.Errorf("get bid: %w", err)
	}
	job, err := u.jobs.GetByID(ctx, bid.JobID)
	if err != nil {
		return nil, nil, fmt.Errorf("get job: %w", err)
	}
	if job.CustomerID != userID {
		return nil, nil, domain.ErrNotJobCustomer
	}

	result, err := u.bids.Accept(ctx, bidID)
	if err != nil {
		recordConflict(err)
		return nil, nil, fmt.Errorf("accept bid: %w", err)
	}

	metrics.BidsResolvedTotal.WithLabelValues(string(domain.BidAccepted)).Inc()
	u.notifier.Emit(domain.BidAcceptedNotification(result.Bid))
	u.notifyRejected(result.Rejected)

	return result.Bid, result.Job, nil
}

func (u *BidUsecase) Reject(ctx context.Context, bidID, userID string) (*domain.Bid, error) {
	bid, err := u.bids.GetByID(ctx, bidID)
	if err != nil {
		return nil, fmt.Errorf("get bid: %w", err)
	}
	job, err := u.jobs.GetByID(ctx, bid.JobID)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	if job.CustomerID != userID {
		return nil, domain.ErrNotJobCustomer
	}

	rejected, err := u.bids.Resolve(ctx, bidID, domain.BidRejected)
	if err != nil {
		recordConflict(err)
		return nil, fmt.Errorf("reject bid: %w", err)
	}

	u.notifyRejected([]*domain.Bid{rejected})
	return rejected, nil
}

func (u *BidUsecase) Withdraw(ctx context.Context, bidID, userID string) (*domain.Bid, error) {
	bid, err := u.bids.GetByID(ctx, bidID)
	if err != nil {
		return nil, fmt.Errorf("get bid: %w", err)
	}
	if bid.BidderID != userID {
		return nil, domain.ErrNotBidOwner
	}
	if !bid.Pending() {
		recordConflict(domain.ErrWithdrawNotPending)
		return nil, domain.ErrWithdrawNotPending
	}

	withdrawn, err := u.bids.Resolve(ctx, bidID, domain.BidWithdrawn)
	if err != nil {
		if errors.Is(err, domain.ErrBidNotPending) {
			err = domain.ErrWithdrawNotPending
		}
		recordConflict(err)
		return nil, fmt.Errorf("withdraw bid: %w", err)
	}

	metrics.BidsResolvedTotal.WithLabelValues(string(domain.BidWithdrawn)).Inc()
	return withdrawn, nil
}

func (u *BidUsecase) notifyRejected(bids []*domain.Bid) {
	if len(bids) == 0 {
		return
	}
	metrics.BidsResolvedTotal.WithLabelValues(string(domain.BidRejected)).Add(float64(len(bids)))
	for _, b := range bids {
		u.notifier.Emit(domain.BidRejectedNotification(b))
	}
}

func ownsPrinter(owned []*domain.Printer, printerID string) bool {
	for _, p := range owned {
		if p.ID == printerID {
			return true
		}
	}
	return false
}

func recordConflict(err error) {
	var de *domain.Error
	if errors.As(err, &de) && de.Kind == domain.KindConflict {
		metrics.BidConflictsTotal.WithLabelValues(de.Message).Inc()
	}
}
