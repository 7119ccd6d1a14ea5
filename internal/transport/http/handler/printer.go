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

type printerService interface {
	Register(ctx context.Context, input usecase.RegisterPrinterInput) (*domain.Printer, error)
	Get(ctx context.Context, id string) (*domain.Printer, error)
	ListMine(ctx context.Context, ownerID string) ([]*domain.Printer, error)
	SetStatus(ctx context.Context, id, ownerID string, status domain.PrinterStatus) (*domain.Printer, error)
	Search(ctx context.Context, filter domain.PrinterFilter) ([]*domain.Printer, error)
}

type PrinterHandler struct {
	printers printerService
	logger   *slog.Logger
}

func NewPrinterHandler(printers printerService, logger *slog.Logger) *PrinterHandler {
	return &PrinterHandler{printers: printers, logger: logger.With("component", "printer_handler")}
}

type registerPrinterRequest struct {
	Name         string          `json:"name"           binding:"required,max=120"`
	Location     string          `json:"location"       binding:"max=200"`
	Materials    []string        `json:"materials"      binding:"required,min=1,max=32,dive,required,max=64"`
	PricePerGram decimal.Decimal `json:"price_per_gram"`
	Description  string          `json:"description"    binding:"max=2000"`
}

type setPrinterStatusRequest struct {
	Status domain.PrinterStatus `json:"status" binding:"required,oneof=available busy unavailable"`
}

type searchPrintersQuery struct {
	Materials []string `form:"material"`
	Location  string   `form:"location"  binding:"max=200"`
	MinPrice  string   `form:"min_price"`
	MaxPrice  string   `form:"max_price"`
	Status    string   `form:"status"    binding:"omitempty,oneof=available busy unavailable"`
}

func (h *PrinterHandler) Register(c *gin.Context) {
	var req registerPrinterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	p, err := h.printers.Register(c.Request.Context(), usecase.RegisterPrinterInput{
		OwnerID:      userID(c),
		Name:         req.Name,
		Location:     req.Location,
		Materials:    req.Materials,
		PricePerGram: req.PricePerGram,
		Description:  req.Description,
	})
	if err != nil {
		writeError(c, h.logger, "register printer", err)
		return
	}
	c.JSON(http.StatusCreated, toPrinterResponse(p, userID(c)))
}

func (h *PrinterHandler) Get(c *gin.Context) {
	p, err := h.printers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, "get printer", err)
		return
	}
	c.JSON(http.StatusOK, toPrinterResponse(p, userID(c)))
}

func (h *PrinterHandler) ListMine(c *gin.Context) {
	printers, err := h.printers.ListMine(c.Request.Context(), userID(c))
	if err != nil {
		writeError(c, h.logger, "list my printers", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"printers": h.toResponses(printers, userID(c))})
}

func (h *PrinterHandler) SetStatus(c *gin.Context) {
	var req setPrinterStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	p, err := h.printers.SetStatus(c.Request.Context(), c.Param("id"), userID(c), req.Status)
	if err != nil {
		writeError(c, h.logger, "set printer status", err)
		return
	}
	c.JSON(http.StatusOK, toPrinterResponse(p, userID(c)))
}

// Search: GET /printers?material=PLA&material=PETG&location=austin&max_price=0.1
func (h *PrinterHandler) Search(c *gin.Context) {
	var q searchPrintersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	filter := domain.PrinterFilter{
		Materials: q.Materials,
		Location:  q.Location,
		Status:    domain.PrinterStatus(q.Status),
	}
	var err error
	if filter.MinPrice, err = parseNullDecimal(q.MinPrice); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "min_price must be a decimal", "field": "min_price"})
		return
	}
	if filter.MaxPrice, err = parseNullDecimal(q.MaxPrice); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "max_price must be a decimal", "field": "max_price"})
		return
	}

	printers, err := h.printers.Search(c.Request.Context(), filter)
	if err != nil {
		writeError(c, h.logger, "search printers", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"printers": h.toResponses(printers, userID(c))})
}

func (h *PrinterHandler) toResponses(printers []*domain.Printer, viewer string) []printerResponse {
	out := make([]printerResponse, len(printers))
	for i, p := range printers {
		out[i] = toPrinterResponse(p, viewer)
	}
	return out
}

func parseNullDecimal(raw string) (decimal.NullDecimal, error) {
	if raw == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}
