package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/printmarket/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type matchService interface {
	FindMatches(ctx context.Context, jobID string, limit int) ([]domain.MatchScore, error)
	FindMatchesWithCriteria(ctx context.Context, jobID string, criteria domain.MatchCriteria, limit int) ([]domain.MatchScore, error)
	BestMatch(ctx context.Context, jobID string) (*domain.MatchScore, error)
}

type MatchHandler struct {
	matches matchService
	logger  *slog.Logger
}

func NewMatchHandler(matches matchService, logger *slog.Logger) *MatchHandler {
	return &MatchHandler{matches: matches, logger: logger.With("component", "match_handler")}
}

type matchSearchRequest struct {
	Materials []string            `json:"materials"  binding:"max=32,dive,required,max=64"`
	Location  string              `json:"location"   binding:"max=200"`
	MaxPrice  decimal.NullDecimal `json:"max_price"`
	MinRating *float64            `json:"min_rating"`
	Limit     int                 `json:"limit"      binding:"min=0"`
}

func (h *MatchHandler) List(c *gin.Context) {
	limit, ok := queryLimit(c)
	if !ok {
		return
	}
	matches, err := h.matches.FindMatches(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		writeError(c, h.logger, "find matches", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": toMatchResponses(matches, userID(c))})
}

func (h *MatchHandler) Best(c *gin.Context) {
	best, err := h.matches.BestMatch(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, "best match", err)
		return
	}
	if best == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": errNoMatch})
		return
	}
	c.JSON(http.StatusOK, toMatchResponses([]domain.MatchScore{*best}, userID(c))[0])
}

func (h *MatchHandler) Search(c *gin.Context) {
	var req matchSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	matches, err := h.matches.FindMatchesWithCriteria(c.Request.Context(), c.Param("id"), domain.MatchCriteria{
		Materials: req.Materials,
		Location:  req.Location,
		MaxPrice:  req.MaxPrice,
		MinRating: req.MinRating,
	}, req.Limit)
	if err != nil {
		writeError(c, h.logger, "search matches", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": toMatchResponses(matches, userID(c))})
}
