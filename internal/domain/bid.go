package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

const (
	MaxPendingBidsPerJob = 5
	CustomerBidViewSize  = 3
	MaxBidNotesLength    = 500
)

type BidStatus string

const (
	BidPending   BidStatus = "pending"
	BidAccepted  BidStatus = "accepted"
	BidRejected  BidStatus = "rejected"
	BidWithdrawn BidStatus = "withdrawn"
	BidExpired   BidStatus = "expired"
)

type Bid struct {
	ID            string
	JobID         string
	PrinterID     string
	BidderID      string // always the printer's owner
	Amount        decimal.Decimal
	EstimatedDays int
	Notes         *string
	Status        BidStatus
	CreatedAt     time.Time
	ResolvedAt    *time.Time
}

func (b *Bid) Pending() bool { return b.Status == BidPending }

// SortForCustomer orders bids cheapest first, then fastest. The slice is sorted in place.
func SortForCustomer(bids []*Bid) {
	sort.SliceStable(bids, func(i, j int) bool {
		if c := bids[i].Amount.Cmp(bids[j].Amount); c != 0 {
			return c < 0
		}
		return bids[i].EstimatedDays < bids[j].EstimatedDays
	})
}
