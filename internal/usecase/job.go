package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/ErlanBelekov/printmarket/internal/domain"
	"github.com/ErlanBelekov/printmarket/internal/matching"
	"github.com/ErlanBelekov/printmarket/internal/metrics"
	"github.com/ErlanBelekov/printmarket/internal/repository"
	"github.com/shopspring/decimal"
)

type JobUsecase struct {
	jobs     repository.JobRepository
	bids     repository.BidRepository
	printers repository.PrinterRepository
	notifier Notifier
}

func NewJobUsecase(
	jobs repository.JobRepository,
	bids repository.BidRepository,
	printers repository.PrinterRepository,
	notifier Notifier,
) *JobUsecase {
	return &JobUsecase{jobs: jobs, bids: bids, printers: printers, notifier: notifier}
}

type CreateJobInput struct {
	CustomerID      string  `validate:"required"`
	Material        *string `validate:"omitempty,max=64"`
	EstimatedWeight decimal.NullDecimal
	EstimatedCost   decimal.NullDecimal
	Notes           string `validate:"max=2000"`
	Location        string `validate:"max=200"`
}

func (u *JobUsecase) CreateJob(ctx context.Context, input CreateJobInput) (*domain.Job, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if input.EstimatedWeight.Valid && !input.EstimatedWeight.Decimal.IsPositive() {
		return nil, domain.Invalid("estimated_weight", "must be greater than 0")
	}
	if input.EstimatedCost.Valid && input.EstimatedCost.Decimal.IsNegative() {
		return nil, domain.Invalid("estimated_cost", "must not be negative")
	}
	if input.EstimatedWeight.Valid {
		if err := checkNumeric("estimated_weight", input.EstimatedWeight.Decimal, amountPrecision, amountScale); err != nil {
			return nil, err
		}
	}
	if input.EstimatedCost.Valid {
		if err := checkNumeric("estimated_cost", input.EstimatedCost.Decimal, amountPrecision, amountScale); err != nil {
			return nil, err
		}
	}

	var material *string
	if input.Material != nil {
		if m := normalizeMaterial(*input.Material); m != "" {
			material = &m
		}
	}

	job := &domain.Job{
		CustomerID:      input.CustomerID,
		Material:        material,
		EstimatedWeight: input.EstimatedWeight,
		EstimatedCost:   input.EstimatedCost,
		Notes:           input.Notes,
		Location:        strings.TrimSpace(input.Location),
		Status:          domain.JobPending,
		PaymentStatus:   domain.PaymentUnpaid,
	}

	created, err := u.jobs.Create(ctx, job)
	if err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	return created, nil
}

func (u *JobUsecase) GetJob(ctx context.Context, id string) (*domain.Job, error) {
	job, err := u.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

func (u *JobUsecase) ListOpenJobs(ctx context.Context, limit int) ([]*domain.Job, error) {
	jobs, err := u.jobs.List(ctx, repository.ListJobsInput{
		OpenOnly: true,
		Limit:    clampLimit(limit, 50, 200),
	})
	if err != nil {
		return nil, fmt.Errorf("list open jobs: %w", err)
	}
	return jobs, nil
}

func (u *JobUsecase) ListCustomerJobs(ctx context.Context, customerID string) ([]*domain.Job, error) {
	jobs, err := u.jobs.List(ctx, repository.ListJobsInput{CustomerID: customerID})
	if err != nil {
		return nil, fmt.Errorf("list customer jobs: %w", err)
	}
	return jobs, nil
}

// CancelJob is allowed while the job is pending or matched. Pending bids are
// rejected with it.
func (u *JobUsecase) CancelJob(ctx context.Context, id, customerID string) (*domain.Job, error) {
	job, err := u.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	if job.CustomerID != customerID {
		return nil, domain.ErrNotJobCustomer
	}

	cancelled, rejected, err := u.jobs.Cancel(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("cancel job: %w", err)
	}

	u.notifyRejected(rejected)
	return cancelled, nil
}

// AssignPrinter commits the job to a printer picked from a match list,
// bypassing bidding. The final cost is the scorer's estimate when the job
// has a weight, otherwise the customer's own estimate.
func (u *JobUsecase) AssignPrinter(ctx context.Context, jobID, printerID, customerID string) (*domain.Job, error) {
	job, err := u.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	if job.CustomerID != customerID {
		return nil, domain.ErrNotJobCustomer
	}
	if job.Assigned() {
		return nil, domain.ErrJobAlreadyAssigned
	}

	printer, err := u.printers.GetByID(ctx, printerID)
	if err != nil {
		return nil, fmt.Errorf("get printer: %w", err)
	}
	if job.Material != nil && !printer.Supports(*job.Material) {
		return nil, domain.Invalid("printer_id", "printer does not support "+*job.Material)
	}

	finalCost := job.EstimatedCost
	if job.EstimatedWeight.Valid {
		cost := matching.EstimateCost(job, printer).Round(amountScale)
		if err := checkNumeric("final_cost", cost, amountPrecision, amountScale); err != nil {
			return nil, err
		}
		finalCost = decimal.NewNullDecimal(cost)
	}

	result, err := u.bids.Assign(ctx, jobID, printerID, finalCost)
	if err != nil {
		return nil, fmt.Errorf("assign printer: %w", err)
	}

	u.notifier.Emit(domain.JobAssignedNotification(result.Job, printer))
	u.notifyRejected(result.Rejected)
	return result.Job, nil
}

func (u *JobUsecase) notifyRejected(bids []*domain.Bid) {
	if len(bids) == 0 {
		return
	}
	metrics.BidsResolvedTotal.WithLabelValues(string(domain.BidRejected)).Add(float64(len(bids)))
	for _, b := range bids {
		u.notifier.Emit(domain.BidRejectedNotification(b))
	}
}

func normalizeMaterial(m string) string {
	return strings.ToUpper(strings.TrimSpace(m))
}

// AdvanceJob moves an assigned job through printing to completed. Only the
// assigned printer's owner may do this.
func (u *JobUsecase) AdvanceJob(ctx context.Context, jobID, userID string, to domain.JobStatus) (*domain.Job, error) {
	job, err := u.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	if !job.Assigned() {
		return nil, domain.ErrInvalidTransition
	}

	printer, err := u.printers.GetByID(ctx, *job.PrinterID)
	if err != nil {
		return nil, fmt.Errorf("get printer: %w", err)
	}
	if printer.OwnerID != userID {
		return nil, domain.ErrPrinterNotOwned
	}

	if !job.CanAdvanceTo(to) {
		return nil, domain.ErrInvalidTransition
	}

	updated, err := u.jobs.Advance(ctx, jobID, job.Status, to)
	if err != nil {
		return nil, fmt.Errorf("advance job: %w", err)
	}
	return updated, nil
}
