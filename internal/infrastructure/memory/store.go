// Package memory is an in-process store with the same locking semantics as
// the postgres repositories: every write holds one store-wide mutex, which
// stands in for the job row lock.
package memory

import (
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/ErlanBelekov/printmarket/internal/domain"
	"github.com/google/uuid"
)

type Store struct {
	mu sync.Mutex

	users         map[string]*domain.User
	jobs          map[string]*domain.Job
	jobOrder      []string
	printers      map[string]*domain.Printer
	printerOrder  []string
	bids          map[string]*domain.Bid
	bidOrder      []string
	notifications []*domain.Notification

	now func() time.Time
}

func New() *Store {
	return &Store{
		users:    make(map[string]*domain.User),
		jobs:     make(map[string]*domain.Job),
		printers: make(map[string]*domain.Printer),
		bids:     make(map[string]*domain.Bid),
		now:      time.Now,
	}
}

func (s *Store) Jobs() *JobRepository                   { return &JobRepository{s: s} }
func (s *Store) Printers() *PrinterRepository           { return &PrinterRepository{s: s} }
func (s *Store) Bids() *BidRepository                   { return &BidRepository{s: s} }
func (s *Store) Users() *UserRepository                 { return &UserRepository{s: s} }
func (s *Store) Notifications() *NotificationRepository { return &NotificationRepository{s: s} }

func newID() string { return uuid.NewString() }

func cloneJob(j *domain.Job) *domain.Job {
	c := *j
	if j.PrinterID != nil {
		id := *j.PrinterID
		c.PrinterID = &id
	}
	if j.Material != nil {
		m := *j.Material
		c.Material = &m
	}
	return &c
}

func clonePrinter(p *domain.Printer) *domain.Printer {
	c := *p
	c.Materials = slices.Clone(p.Materials)
	return &c
}

func cloneBid(b *domain.Bid) *domain.Bid {
	c := *b
	if b.Notes != nil {
		n := *b.Notes
		c.Notes = &n
	}
	if b.ResolvedAt != nil {
		r := *b.ResolvedAt
		c.ResolvedAt = &r
	}
	return &c
}

func cloneNotification(n *domain.Notification) *domain.Notification {
	c := *n
	c.Data = maps.Clone(n.Data)
	return &c
}

// resolveLocked moves a pending bid to a terminal status. Caller holds mu.
func (s *Store) resolveLocked(b *domain.Bid, to domain.BidStatus, at time.Time) {
	b.Status = to
	b.ResolvedAt = &at
}

// rejectPendingLocked rejects every pending bid on jobID except keepID. Caller holds mu.
func (s *Store) rejectPendingLocked(jobID, keepID string, at time.Time) []*domain.Bid {
	var rejected []*domain.Bid
	for _, id := range s.bidOrder {
		b := s.bids[id]
		if b.JobID != jobID || b.ID == keepID || !b.Pending() {
			continue
		}
		s.resolveLocked(b, domain.BidRejected, at)
		rejected = append(rejected, cloneBid(b))
	}
	return rejected
}
