package handler

import (
	"time"

	"github.com/ErlanBelekov/printmarket/internal/domain"
	"github.com/shopspring/decimal"
)

// Money and weights travel as decimal strings ("12.50") so clients never
// round-trip them through float64.

type jobResponse struct {
	ID              string               `json:"id"`
	CustomerID      string               `json:"customer_id"`
	PrinterID       *string              `json:"printer_id"`
	Material        *string              `json:"material"`
	EstimatedWeight decimal.NullDecimal  `json:"estimated_weight"`
	EstimatedCost   decimal.NullDecimal  `json:"estimated_cost"`
	FinalCost       decimal.NullDecimal  `json:"final_cost"`
	Notes           string               `json:"notes,omitempty"`
	Location        string               `json:"location,omitempty"`
	Status          domain.JobStatus     `json:"status"`
	PaymentStatus   domain.PaymentStatus `json:"payment_status"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

func toJobResponse(j *domain.Job) jobResponse {
	return jobResponse{
		ID:              j.ID,
		CustomerID:      j.CustomerID,
		PrinterID:       j.PrinterID,
		Material:        j.Material,
		EstimatedWeight: j.EstimatedWeight,
		EstimatedCost:   j.EstimatedCost,
		FinalCost:       j.FinalCost,
		Notes:           j.Notes,
		Location:        j.Location,
		Status:          j.Status,
		PaymentStatus:   j.PaymentStatus,
		CreatedAt:       j.CreatedAt,
		UpdatedAt:       j.UpdatedAt,
	}
}

func toJobResponses(jobs []*domain.Job) []jobResponse {
	out := make([]jobResponse, len(jobs))
	for i, j := range jobs {
		out[i] = toJobResponse(j)
	}
	return out
}

type printerResponse struct {
	ID            string               `json:"id"`
	OwnerID       string               `json:"owner_id,omitempty"`
	Name          string               `json:"name"`
	Location      string               `json:"location,omitempty"`
	Materials     []string             `json:"materials"`
	PricePerGram  decimal.Decimal      `json:"price_per_gram"`
	Status        domain.PrinterStatus `json:"status"`
	Rating        float64              `json:"rating"`
	CompletedJobs int                  `json:"completed_jobs"`
	Description   string               `json:"description,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
}

// toPrinterResponse hides the owner unless the caller is that owner.
func toPrinterResponse(p *domain.Printer, viewer string) printerResponse {
	r := printerResponse{
		ID:            p.ID,
		Name:          p.Name,
		Location:      p.Location,
		Materials:     p.Materials,
		PricePerGram:  p.PricePerGram,
		Status:        p.Status,
		Rating:        p.Rating,
		CompletedJobs: p.CompletedJobs,
		Description:   p.Description,
		CreatedAt:     p.CreatedAt,
	}
	if p.OwnerID == viewer {
		r.OwnerID = p.OwnerID
	}
	return r
}

type profileResponse struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Location      string   `json:"location,omitempty"`
	Materials     []string `json:"materials"`
	Rating        float64  `json:"rating"`
	CompletedJobs int      `json:"completed_jobs"`
	Description   string   `json:"description,omitempty"`
}

func toProfileResponse(p *domain.PrinterProfile) *profileResponse {
	if p == nil {
		return nil
	}
	return &profileResponse{
		ID:            p.ID,
		Name:          p.Name,
		Location:      p.Location,
		Materials:     p.Materials,
		Rating:        p.Rating,
		CompletedJobs: p.CompletedJobs,
		Description:   p.Description,
	}
}

type bidResponse struct {
	ID            string           `json:"id"`
	JobID         string           `json:"job_id"`
	PrinterID     string           `json:"printer_id"`
	Amount        decimal.Decimal  `json:"amount"`
	EstimatedDays int              `json:"estimated_days"`
	Notes         *string          `json:"notes,omitempty"`
	Status        domain.BidStatus `json:"status"`
	CreatedAt     time.Time        `json:"created_at"`
	ResolvedAt    *time.Time       `json:"resolved_at,omitempty"`
	Printer       *profileResponse `json:"printer,omitempty"`
}

func toBidResponse(b *domain.Bid, profile *domain.PrinterProfile) bidResponse {
	return bidResponse{
		ID:            b.ID,
		JobID:         b.JobID,
		PrinterID:     b.PrinterID,
		Amount:        b.Amount,
		EstimatedDays: b.EstimatedDays,
		Notes:         b.Notes,
		Status:        b.Status,
		CreatedAt:     b.CreatedAt,
		ResolvedAt:    b.ResolvedAt,
		Printer:       toProfileResponse(profile),
	}
}

type matchResponse struct {
	Printer       printerResponse `json:"printer"`
	Score         float64         `json:"score"`
	Reasons       []string        `json:"reasons"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
}

func toMatchResponses(matches []domain.MatchScore, viewer string) []matchResponse {
	out := make([]matchResponse, len(matches))
	for i, m := range matches {
		out[i] = matchResponse{
			Printer:       toPrinterResponse(m.Printer, viewer),
			Score:         m.Score,
			Reasons:       m.Reasons,
			EstimatedCost: m.EstimatedCost,
		}
	}
	return out
}

type notificationResponse struct {
	ID        string                  `json:"id"`
	Type      domain.NotificationType `json:"type"`
	Title     string                  `json:"title"`
	Message   string                  `json:"message"`
	Data      map[string]string       `json:"data,omitempty"`
	Read      bool                    `json:"read"`
	CreatedAt time.Time               `json:"created_at"`
}
