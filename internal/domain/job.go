package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobMatched   JobStatus = "matched"
	JobPrinting  JobStatus = "printing"
	JobCompleted JobStatus = "completed"
	JobCancelled JobStatus = "cancelled"
)

func ValidJobStatus(s JobStatus) bool {
	switch s {
	case JobPending, JobMatched, JobPrinting, JobCompleted, JobCancelled:
		return true
	default:
		return false
	}
}

type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

type Job struct {
	ID         string
	CustomerID string
	PrinterID  *string // nil until assigned

	Material        *string // nil means any material
	EstimatedWeight decimal.NullDecimal
	EstimatedCost   decimal.NullDecimal
	FinalCost       decimal.NullDecimal

	Notes    string
	Location string

	Status        JobStatus
	PaymentStatus PaymentStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (j *Job) Assigned() bool { return j.PrinterID != nil }

// OpenForBids reports whether printer owners may still compete for the job.
func (j *Job) OpenForBids() bool {
	return j.PrinterID == nil && j.Status == JobPending
}

func (j *Job) Cancellable() bool {
	return j.Status == JobPending || j.Status == JobMatched
}

// CanAdvanceTo reports whether fulfilment can move the job to status.
// Only matched to printing and printing to completed are allowed.
func (j *Job) CanAdvanceTo(status JobStatus) bool {
	switch status {
	case JobPrinting:
		return j.Status == JobMatched
	case JobCompleted:
		return j.Status == JobPrinting
	default:
		return false
	}
}
