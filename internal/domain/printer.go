package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type PrinterStatus string

const (
	PrinterAvailable   PrinterStatus = "available"
	PrinterBusy        PrinterStatus = "busy"
	PrinterUnavailable PrinterStatus = "unavailable"
)

func ValidPrinterStatus(s PrinterStatus) bool {
	switch s {
	case PrinterAvailable, PrinterBusy, PrinterUnavailable:
		return true
	default:
		return false
	}
}

type Printer struct {
	ID            string
	OwnerID       string
	Name          string
	Location      string
	Materials     []string // never empty
	PricePerGram  decimal.Decimal
	Status        PrinterStatus
	Rating        float64 // 0-5
	CompletedJobs int
	Description   string
	CreatedAt     time.Time
}

// Supports reports whether the printer lists material, ignoring case.
func (p *Printer) Supports(material string) bool {
	for _, m := range p.Materials {
		if strings.EqualFold(m, material) {
			return true
		}
	}
	return false
}

// Profile strips owner identity for display to customers.
func (p *Printer) Profile() PrinterProfile {
	return PrinterProfile{
		ID:            p.ID,
		Name:          p.Name,
		Location:      p.Location,
		Materials:     p.Materials,
		Rating:        p.Rating,
		CompletedJobs: p.CompletedJobs,
		Description:   p.Description,
	}
}

type PrinterProfile struct {
	ID            string
	Name          string
	Location      string
	Materials     []string
	Rating        float64
	CompletedJobs int
	Description   string
}

// PrinterFilter narrows a directory search. Zero values mean "no constraint".
type PrinterFilter struct {
	Materials []string // any-of
	Location  string   // case-insensitive substring
	MinPrice  decimal.NullDecimal
	MaxPrice  decimal.NullDecimal
	Status    PrinterStatus
}
