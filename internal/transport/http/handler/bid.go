package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/printmarket/internal/domain"
	"github.com/ErlanBelekov/printmarket/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type bidService interface {
	Submit(ctx context.Context, input usecase.SubmitBidInput) (*domain.Bid, error)
	List(ctx context.Context, jobID, userID string) (*usecase.BidListing, error)
	Accept(ctx context.Context, bidID, userID string) (*domain.Bid, *domain.Job, error)
	Reject(ctx context.Context, bidID, userID string) (*domain.Bid, error)
	Withdraw(ctx context.Context, bidID, userID string) (*domain.Bid, error)
}

type BidHandler struct {
	bids   bidService
	logger *slog.Logger
}

func NewBidHandler(bids bidService, logger *slog.Logger) *BidHandler {
	return &BidHandler{bids: bids, logger: logger.With("component", "bid_handler")}
}

type submitBidRequest struct {
	PrinterID     string          `json:"printer_id"     binding:"required"`
	Amount        decimal.Decimal `json:"amount"`
	EstimatedDays int             `json:"estimated_days" binding:"required,gt=0"`
	Notes         *string         `json:"notes"          binding:"omitempty,max=500"`
}

type acceptBidResponse struct {
	Bid bidResponse `json:"bid"`
	Job jobResponse `json:"job"`
}

func (h *BidHandler) Submit(c *gin.Context) {
	var req submitBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	bid, err := h.bids.Submit(c.Request.Context(), usecase.SubmitBidInput{
		JobID:         c.Param("id"),
		UserID:        userID(c),
		PrinterID:     req.PrinterID,
		Amount:        req.Amount,
		EstimatedDays: req.EstimatedDays,
		Notes:         req.Notes,
	})
	if err != nil {
		writeError(c, h.logger, "submit bid", err)
		return
	}
	c.JSON(http.StatusCreated, toBidResponse(bid, nil))
}

// List returns the customer view (three cheapest pending bids with printer
// profiles) to the job's customer, and the caller's own bids to anyone else.
func (h *BidHandler) List(c *gin.Context) {
	listing, err := h.bids.List(c.Request.Context(), c.Param("id"), userID(c))
	if err != nil {
		writeError(c, h.logger, "list bids", err)
		return
	}

	out := make([]bidResponse, len(listing.Bids))
	for i, v := range listing.Bids {
		out[i] = toBidResponse(v.Bid, v.Printer)
	}
	view := "bidder"
	if listing.Customer {
		view = "customer"
	}
	c.JSON(http.StatusOK, gin.H{"bids": out, "total": listing.Total, "view": view})
}

func (h *BidHandler) Accept(c *gin.Context) {
	bid, job, err := h.bids.Accept(c.Request.Context(), c.Param("id"), userID(c))
	if err != nil {
		writeError(c, h.logger, "accept bid", err)
		return
	}
	c.JSON(http.StatusOK, acceptBidResponse{Bid: toBidResponse(bid, nil), Job: toJobResponse(job)})
}

func (h *BidHandler) Reject(c *gin.Context) {
	bid, err := h.bids.Reject(c.Request.Context(), c.Param("id"), userID(c))
	if err != nil {
		writeError(c, h.logger, "reject bid", err)
		return
	}
	c.JSON(http.StatusOK, toBidResponse(bid, nil))
}

func (h *BidHandler) Withdraw(c *gin.Context) {
	bid, err := h.bids.Withdraw(c.Request.Context(), c.Param("id"), userID(c))
	if err != nil {
		writeError(c, h.logger, "withdraw bid", err)
		return
	}
	c.JSON(http.StatusOK, toBidResponse(bid, nil))
}
