package usecase_test

import (
	"context"
	"time"

	"github.com/ErlanBelekov/printmarket/internal/domain"
	"github.com/ErlanBelekov/printmarket/internal/repository"
	"github.com/shopspring/decimal"
)

type fakeJobRepo struct {
	create  func(ctx context.Context, job *domain.Job) (*domain.Job, error)
	getByID func(ctx context.Context, id string) (*domain.Job, error)
	list    func(ctx context.Context, input repository.ListJobsInput) ([]*domain.Job, error)
	cancel  func(ctx context.Context, id string) (*domain.Job, []*domain.Bid, error)
	advance func(ctx context.Context, id string, from, to domain.JobStatus) (*domain.Job, error)
}

func (r *fakeJobRepo) Create(ctx context.Context, job *domain.Job) (*domain.Job, error) {
	return r.create(ctx, job)
}

func (r *fakeJobRepo) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	return r.getByID(ctx, id)
}

func (r *fakeJobRepo) Advance(ctx context.Context, id string, from, to domain.JobStatus) (*domain.Job, error) {
	return r.advance(ctx, id, from, to)
}

func (r *fakeJobRepo) List(ctx context.Context, input repository.ListJobsInput) ([]*domain.Job, error) {
	return r.list(ctx, input)
}

func (r *fakeJobRepo) Cancel(ctx context.Context, id string) (*domain.Job, []*domain.Bid, error) {
	return r.cancel(ctx, id)
}

type fakePrinterRepo struct {
	create      func(ctx context.Context, p *domain.Printer) (*domain.Printer, error)
	getByID     func(ctx context.Context, id string) (*domain.Printer, error)
	listByOwner func(ctx context.Context, ownerID string) ([]*domain.Printer, error)
	search      func(ctx context.Context, f domain.PrinterFilter) ([]*domain.Printer, error)
	setStatus   func(ctx context.Context, id, ownerID string, s domain.PrinterStatus) (*domain.Printer, error)
}

func (r *fakePrinterRepo) Create(ctx context.Context, p *domain.Printer) (*domain.Printer, error) {
	return r.create(ctx, p)
}

func (r *fakePrinterRepo) GetByID(ctx context.Context, id string) (*domain.Printer, error) {
	return r.getByID(ctx, id)
}

func (r *fakePrinterRepo) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Printer, error) {
	return r.listByOwner(ctx, ownerID)
}

func (r *fakePrinterRepo) Search(ctx context.Context, f domain.PrinterFilter) ([]*domain.Printer, error) {
	return r.search(ctx, f)
}

func (r *fakePrinterRepo) SetStatus(ctx context.Context, id, ownerID string, s domain.PrinterStatus) (*domain.Printer, error) {
	return r.setStatus(ctx, id, ownerID, s)
}

type fakeBidRepo struct {
	createPending      func(ctx context.Context, bid *domain.Bid, maxPending int) (*domain.Bid, error)
	getByID            func(ctx context.Context, id string) (*domain.Bid, error)
	listByJob          func(ctx context.Context, jobID string, status domain.BidStatus) ([]*domain.Bid, error)
	listByJobAndBidder func(ctx context.Context, jobID, bidderID string) ([]*domain.Bid, error)
	accept             func(ctx context.Context, bidID string) (*repository.AcceptResult, error)
	assign             func(ctx context.Context, jobID, printerID string, cost decimal.NullDecimal) (*repository.AcceptResult, error)
	resolve            func(ctx context.Context, bidID string, to domain.BidStatus) (*domain.Bid, error)
	expireStale        func(ctx context.Context, cutoff time.Time, limit int) ([]*domain.Bid, error)
}

func (r *fakeBidRepo) CreatePending(ctx context.Context, bid *domain.Bid, maxPending int) (*domain.Bid, error) {
	return r.createPending(ctx, bid, maxPending)
}

func (r *fakeBidRepo) GetByID(ctx context.Context, id string) (*domain.Bid, error) {
	return r.getByID(ctx, id)
}

func (r *fakeBidRepo) ListByJob(ctx context.Context, jobID string, status domain.BidStatus) ([]*domain.Bid, error) {
	return r.listByJob(ctx, jobID, status)
}

func (r *fakeBidRepo) ListByJobAndBidder(ctx context.Context, jobID, bidderID string) ([]*domain.Bid, error) {
	return r.listByJobAndBidder(ctx, jobID, bidderID)
}

func (r *fakeBidRepo) Accept(ctx context.Context, bidID string) (*repository.AcceptResult, error) {
	return r.accept(ctx, bidID)
}

func (r *fakeBidRepo) Assign(ctx context.Context, jobID, printerID string, cost decimal.NullDecimal) (*repository.AcceptResult, error) {
	return r.assign(ctx, jobID, printerID, cost)
}

func (r *fakeBidRepo) Resolve(ctx context.Context, bidID string, to domain.BidStatus) (*domain.Bid, error) {
	return r.resolve(ctx, bidID, to)
}

func (r *fakeBidRepo) ExpireStale(ctx context.Context, cutoff time.Time, limit int) ([]*domain.Bid, error) {
	return r.expireStale(ctx, cutoff, limit)
}
