package postgres_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/ErlanBelekov/printmarket/internal/domain"
	"github.com/ErlanBelekov/printmarket/internal/infrastructure/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// These tests need a disposable database:
//
//	TEST_DATABASE_URL=postgres://localhost:5432/printmarket_test?sslmode=disable go test ./internal/infrastructure/postgres/
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	if err := postgres.MigrateUp(url); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	pool, err := postgres.NewPool(context.Background(), url, 20)
	if err != nil {
		t.Fatalf("pool: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

type fixture struct {
	t        *testing.T
	ctx      context.Context
	users    *postgres.UserRepository
	jobs     *postgres.JobRepository
	printers *postgres.PrinterRepository
	bids     *postgres.BidRepository
}

func newFixture(t *testing.T) *fixture {
	pool := testPool(t)
	return &fixture{
		t:        t,
		ctx:      context.Background(),
		users:    postgres.NewUserRepository(pool),
		jobs:     postgres.NewJobRepository(pool),
		printers: postgres.NewPrinterRepository(pool),
		bids:     postgres.NewBidRepository(pool),
	}
}

func (f *fixture) user() string {
	f.t.Helper()
	id := "it-" + uuid.NewString()
	if err := f.users.Upsert(f.ctx, id); err != nil {
		f.t.Fatalf("upsert user: %v", err)
	}
	return id
}

func (f *fixture) job() *domain.Job {
	f.t.Helper()
	m := "PLA"
	j, err := f.jobs.Create(f.ctx, &domain.Job{
		CustomerID:      f.user(),
		Material:        &m,
		EstimatedWeight: decimal.NewNullDecimal(decimal.NewFromInt(100)),
		Status:          domain.JobPending,
		PaymentStatus:   domain.PaymentUnpaid,
	})
	if err != nil {
		f.t.Fatalf("create job: %v", err)
	}
	return j
}

func (f *fixture) printer() *domain.Printer {
	f.t.Helper()
	p, err := f.printers.Create(f.ctx, &domain.Printer{
		OwnerID:      f.user(),
		Name:         "it printer",
		Location:     "Austin",
		Materials:    []string{"PLA"},
		PricePerGram: decimal.RequireFromString("0.05"),
		Status:       domain.PrinterAvailable,
	})
	if err != nil {
		f.t.Fatalf("create printer: %v", err)
	}
	return p
}

func (f *fixture) bid(job *domain.Job, p *domain.Printer) (*domain.Bid, error) {
	return f.bids.CreatePending(f.ctx, &domain.Bid{
		JobID:         job.ID,
		PrinterID:     p.ID,
		BidderID:      p.OwnerID,
		Amount:        decimal.NewFromInt(10),
		EstimatedDays: 3,
	}, domain.MaxPendingBidsPerJob)
}

func TestBidRepository_CapAndDuplicate(t *testing.T) {
	f := newFixture(t)
	job := f.job()

	first := f.printer()
	if _, err := f.bid(job, first); err != nil {
		t.Fatalf("first bid: %v", err)
	}
	if _, err := f.bid(job, first); !errors.Is(err, domain.ErrDuplicatePendingBid) {
		t.Fatalf("duplicate: err = %v", err)
	}

	for range domain.MaxPendingBidsPerJob - 1 {
		if _, err := f.bid(job, f.printer()); err != nil {
			t.Fatalf("bid: %v", err)
		}
	}
	if _, err := f.bid(job, f.printer()); !errors.Is(err, domain.ErrBidLimitReached) {
		t.Fatalf("sixth bid: err = %v", err)
	}
}

func TestBidRepository_ConcurrentAcceptHasOneWinner(t *testing.T) {
	f := newFixture(t)
	job := f.job()

	var ids []string
	for range domain.MaxPendingBidsPerJob {
		b, err := f.bid(job, f.printer())
		if err != nil {
			t.Fatalf("bid: %v", err)
		}
		ids = append(ids, b.ID)
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		winners  int
		assigned int
	)
	for _, id := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.bids.Accept(f.ctx, id)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				winners++
			case errors.Is(err, domain.ErrJobAlreadyAssigned), errors.Is(err, domain.ErrBidNotPending):
				assigned++
			default:
				t.Errorf("accept %s: %v", id, err)
			}
		}()
	}
	wg.Wait()

	if winners != 1 || assigned != len(ids)-1 {
		t.Fatalf("winners = %d, losers = %d", winners, assigned)
	}

	all, err := f.bids.ListByJob(f.ctx, job.ID, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	accepted := 0
	for _, b := range all {
		switch b.Status {
		case domain.BidAccepted:
			accepted++
		case domain.BidPending:
			t.Errorf("bid %s still pending", b.ID)
		}
	}
	if accepted != 1 {
		t.Errorf("accepted = %d", accepted)
	}

	got, err := f.jobs.GetByID(f.ctx, job.ID)
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if got.Status != domain.JobMatched || got.PrinterID == nil {
		t.Errorf("job = %+v", got)
	}
}

func TestBidRepository_ResolveOnlyFromPending(t *testing.T) {
	f := newFixture(t)
	job := f.job()
	b, err := f.bid(job, f.printer())
	if err != nil {
		t.Fatalf("bid: %v", err)
	}

	if _, err := f.bids.Resolve(f.ctx, b.ID, domain.BidWithdrawn); err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if _, err := f.bids.Resolve(f.ctx, b.ID, domain.BidRejected); !errors.Is(err, domain.ErrBidNotPending) {
		t.Fatalf("second resolve: err = %v", err)
	}
	if _, err := f.bids.Resolve(f.ctx, "missing", domain.BidRejected); !errors.Is(err, domain.ErrBidNotFound) {
		t.Fatalf("missing: err = %v", err)
	}
}

func TestBidRepository_ExpireStale(t *testing.T) {
	f := newFixture(t)
	job := f.job()
	b, err := f.bid(job, f.printer())
	if err != nil {
		t.Fatalf("bid: %v", err)
	}

	cutoff := time.Now().Add(time.Minute)
	found := false
	for {
		batch, err := f.bids.ExpireStale(f.ctx, cutoff, 100)
		if err != nil {
			t.Fatalf("expire: %v", err)
		}
		if len(batch) == 0 {
			break
		}
		for _, e := range batch {
			if e.Status != domain.BidExpired {
				t.Errorf("bid %s status = %s", e.ID, e.Status)
			}
			if e.ID == b.ID {
				found = true
			}
		}
	}
	if !found {
		t.Fatal("stale bid was not expired")
	}

	// The slot is free again.
	if _, err := f.bid(job, f.printer()); err != nil {
		t.Fatalf("bid after expiry: %v", err)
	}
}

func TestPrinterRepository_SearchByMaterialIgnoresCase(t *testing.T) {
	f := newFixture(t)
	p := f.printer()

	got, err := f.printers.Search(f.ctx, domain.PrinterFilter{
		Materials: []string{"pla"},
		Location:  "aust",
		MaxPrice:  decimal.NewNullDecimal(decimal.RequireFromString("0.05")),
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	for _, g := range got {
		if g.ID == p.ID {
			return
		}
	}
	t.Fatalf("printer %s not found in %d results", p.ID, len(got))
}

func TestJobRepository_AdvanceIsConditionalAndCountsCompletion(t *testing.T) {
	f := newFixture(t)
	job := f.job()
	p := f.printer()

	if _, err := f.bids.Assign(f.ctx, job.ID, p.ID, decimal.NullDecimal{}); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if _, err := f.jobs.Advance(f.ctx, job.ID, domain.JobPending, domain.JobPrinting); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("stale from err = %v, want ErrInvalidTransition", err)
	}
	if _, err := f.jobs.Advance(f.ctx, job.ID, domain.JobMatched, domain.JobPrinting); err != nil {
		t.Fatalf("advance to printing: %v", err)
	}
	done, err := f.jobs.Advance(f.ctx, job.ID, domain.JobPrinting, domain.JobCompleted)
	if err != nil {
		t.Fatalf("advance to completed: %v", err)
	}
	if done.Status != domain.JobCompleted {
		t.Errorf("status = %s, want completed", done.Status)
	}

	got, err := f.printers.GetByID(f.ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.CompletedJobs != 1 {
		t.Errorf("completed_jobs = %d, want 1", got.CompletedJobs)
	}
}
