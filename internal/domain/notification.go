package domain

import (
	"fmt"
	"time"
)

type NotificationType string

const (
	NotifyNewBid      NotificationType = "new_bid"
	NotifyBidAccepted NotificationType = "bid_accepted"
	NotifyBidRejected NotificationType = "bid_rejected"
	NotifyBidExpired  NotificationType = "bid_expired"
	NotifyJobAssigned NotificationType = "job_assigned"
)

type Notification struct {
	ID        string
	UserID    string
	Type      NotificationType
	Title     string
	Message   string
	Data      map[string]string
	Read      bool
	CreatedAt time.Time
}

func NewBidNotification(job *Job, bid *Bid) Notification {
	return Notification{
		UserID:  job.CustomerID,
		Type:    NotifyNewBid,
		Title:   "New bid received",
		Message: fmt.Sprintf("A printer offered %s to complete your job in %d days", bid.Amount.StringFixed(2), bid.EstimatedDays),
		Data:    bidData(bid),
	}
}

func BidAcceptedNotification(bid *Bid) Notification {
	return Notification{
		UserID:  bid.BidderID,
		Type:    NotifyBidAccepted,
		Title:   "Bid accepted",
		Message: fmt.Sprintf("Your bid of %s was accepted", bid.Amount.StringFixed(2)),
		Data:    bidData(bid),
	}
}

func BidRejectedNotification(bid *Bid) Notification {
	return Notification{
		UserID:  bid.BidderID,
		Type:    NotifyBidRejected,
		Title:   "Bid not selected",
		Message: fmt.Sprintf("Your bid of %s was not selected", bid.Amount.StringFixed(2)),
		Data:    bidData(bid),
	}
}

func BidExpiredNotification(bid *Bid) Notification {
	return Notification{
		UserID:  bid.BidderID,
		Type:    NotifyBidExpired,
		Title:   "Bid expired",
		Message: fmt.Sprintf("Your bid of %s expired before the customer decided", bid.Amount.StringFixed(2)),
		Data:    bidData(bid),
	}
}

func JobAssignedNotification(job *Job, printer *Printer) Notification {
	return Notification{
		UserID:  printer.OwnerID,
		Type:    NotifyJobAssigned,
		Title:   "Job assigned",
		Message: fmt.Sprintf("A customer assigned a job to %s", printer.Name),
		Data:    map[string]string{"job_id": job.ID, "printer_id": printer.ID},
	}
}

func bidData(bid *Bid) map[string]string {
	return map[string]string{
		"job_id":     bid.JobID,
		"bid_id":     bid.ID,
		"printer_id": bid.PrinterID,
		"amount":     bid.Amount.String(),
	}
}
