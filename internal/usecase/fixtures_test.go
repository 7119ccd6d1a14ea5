package usecase_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/ErlanBelekov/printmarket/internal/domain"
	"github.com/ErlanBelekov/printmarket/internal/infrastructure/memory"
	"github.com/ErlanBelekov/printmarket/internal/usecase"
	"github.com/shopspring/decimal"
)

// ---- fakes ----

type recordingNotifier struct {
	mu   sync.Mutex
	sent []domain.Notification
}

func (n *recordingNotifier) Emit(note domain.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, note)
}

func (n *recordingNotifier) ofType(typ domain.NotificationType) []domain.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []domain.Notification
	for _, s := range n.sent {
		if s.Type == typ {
			out = append(out, s)
		}
	}
	return out
}

// ---- helpers ----

const customerID = "customer-1"

type market struct {
	store    *memory.Store
	notifier *recordingNotifier
	bids     *usecase.BidUsecase
	jobs     *usecase.JobUsecase
	printers *usecase.PrinterUsecase
}

func newMarket() *market {
	store := memory.New()
	n := &recordingNotifier{}
	return &market{
		store:    store,
		notifier: n,
		bids:     usecase.NewBidUsecase(store.Bids(), store.Jobs(), store.Printers(), n),
		jobs:     usecase.NewJobUsecase(store.Jobs(), store.Bids(), store.Printers(), n),
		printers: usecase.NewPrinterUsecase(store.Printers()),
	}
}

func (m *market) job(t *testing.T) *domain.Job {
	t.Helper()
	job, err := m.jobs.CreateJob(context.Background(), usecase.CreateJobInput{
		CustomerID:      customerID,
		Material:        ptr("PLA"),
		EstimatedWeight: decimal.NewNullDecimal(decimal.NewFromInt(100)),
		Notes:           "Austin",
	})
	if err != nil {
		t.Fatalf("create job: %v", err)
	}
	return job
}

func (m *market) printer(t *testing.T, ownerID string) *domain.Printer {
	t.Helper()
	p, err := m.printers.Register(context.Background(), usecase.RegisterPrinterInput{
		OwnerID:      ownerID,
		Name:         "Printer of " + ownerID,
		Location:     "Austin",
		Materials:    []string{"pla", "PETG"},
		PricePerGram: decimal.RequireFromString("0.08"),
	})
	if err != nil {
		t.Fatalf("register printer: %v", err)
	}
	return p
}

func (m *market) bid(t *testing.T, job *domain.Job, p *domain.Printer, amount string, days int) *domain.Bid {
	t.Helper()
	b, err := m.bids.Submit(context.Background(), submitInput(job, p, amount, days))
	if err != nil {
		t.Fatalf("submit bid: %v", err)
	}
	return b
}

func submitInput(job *domain.Job, p *domain.Printer, amount string, days int) usecase.SubmitBidInput {
	return usecase.SubmitBidInput{
		JobID:         job.ID,
		UserID:        p.OwnerID,
		PrinterID:     p.ID,
		Amount:        decimal.RequireFromString(amount),
		EstimatedDays: days,
	}
}

func owner(i int) string { return fmt.Sprintf("owner-%d", i) }

func ptr[T any](v T) *T { return &v }
