package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ErlanBelekov/printmarket/internal/domain"
	"github.com/ErlanBelekov/printmarket/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type jobService interface {
	CreateJob(ctx context.Context, input usecase.CreateJobInput) (*domain.Job, error)
	GetJob(ctx context.Context, id string) (*domain.Job, error)
	ListOpenJobs(ctx context.Context, limit int) ([]*domain.Job, error)
	ListCustomerJobs(ctx context.Context, customerID string) ([]*domain.Job, error)
	CancelJob(ctx context.Context, id, customerID string) (*domain.Job, error)
	AssignPrinter(ctx context.Context, jobID, printerID, customerID string) (*domain.Job, error)
	AdvanceJob(ctx context.Context, jobID, userID string, to domain.JobStatus) (*domain.Job, error)
}

type JobHandler struct {
	jobs   jobService
	logger *slog.Logger
}

func NewJobHandler(jobs jobService, logger *slog.Logger) *JobHandler {
	return &JobHandler{jobs: jobs, logger: logger.With("component", "job_handler")}
}

type createJobRequest struct {
	Material        *string             `json:"material"         binding:"omitempty,max=64"`
	EstimatedWeight decimal.NullDecimal `json:"estimated_weight"`
	EstimatedCost   decimal.NullDecimal `json:"estimated_cost"`
	Notes           string              `json:"notes"            binding:"max=2000"`
	Location        string              `json:"location"         binding:"max=200"`
}

type assignPrinterRequest struct {
	PrinterID string `json:"printer_id" binding:"required"`
}

type advanceJobRequest struct {
	Status domain.JobStatus `json:"status" binding:"required,oneof=printing completed"`
}

func (h *JobHandler) Create(c *gin.Context) {
	var req createJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	job, err := h.jobs.CreateJob(c.Request.Context(), usecase.CreateJobInput{
		CustomerID:      userID(c),
		Material:        req.Material,
		EstimatedWeight: req.EstimatedWeight,
		EstimatedCost:   req.EstimatedCost,
		Notes:           req.Notes,
		Location:        req.Location,
	})
	if err != nil {
		writeError(c, h.logger, "create job", err)
		return
	}

	c.JSON(http.StatusCreated, toJobResponse(job))
}

func (h *JobHandler) Get(c *gin.Context) {
	job, err := h.jobs.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, "get job", err)
		return
	}
	c.JSON(http.StatusOK, toJobResponse(job))
}

// ListOpen is the job board printer owners browse for work.
func (h *JobHandler) ListOpen(c *gin.Context) {
	limit, ok := queryLimit(c)
	if !ok {
		return
	}
	jobs, err := h.jobs.ListOpenJobs(c.Request.Context(), limit)
	if err != nil {
		writeError(c, h.logger, "list open jobs", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": toJobResponses(jobs)})
}

func (h *JobHandler) ListMine(c *gin.Context) {
	jobs, err := h.jobs.ListCustomerJobs(c.Request.Context(), userID(c))
	if err != nil {
		writeError(c, h.logger, "list customer jobs", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": toJobResponses(jobs)})
}

func (h *JobHandler) Cancel(c *gin.Context) {
	job, err := h.jobs.CancelJob(c.Request.Context(), c.Param("id"), userID(c))
	if err != nil {
		writeError(c, h.logger, "cancel job", err)
		return
	}
	c.JSON(http.StatusOK, toJobResponse(job))
}

func (h *JobHandler) Assign(c *gin.Context) {
	var req assignPrinterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	job, err := h.jobs.AssignPrinter(c.Request.Context(), c.Param("id"), req.PrinterID, userID(c))
	if err != nil {
		writeError(c, h.logger, "assign printer", err)
		return
	}
	c.JSON(http.StatusOK, toJobResponse(job))
}

func (h *JobHandler) Advance(c *gin.Context) {
	var req advanceJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	job, err := h.jobs.AdvanceJob(c.Request.Context(), c.Param("id"), userID(c), req.Status)
	if err != nil {
		writeError(c, h.logger, "advance job", err)
		return
	}
	c.JSON(http.StatusOK, toJobResponse(job))
}

// queryLimit parses ?limit. Zero means "use the default"; clamping is the
// usecase's job. It writes a 400 and returns false on garbage.
func queryLimit(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer", "field": "limit"})
		return 0, false
	}
	return n, true
}
