package httptransport

import (
	"log/slog"

	"github.com/ErlanBelekov/printmarket/internal/repository"
	"github.com/ErlanBelekov/printmarket/internal/transport/http/handler"
	"github.com/ErlanBelekov/printmarket/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

type Handlers struct {
	Jobs          *handler.JobHandler
	Printers      *handler.PrinterHandler
	Matches       *handler.MatchHandler
	Bids          *handler.BidHandler
	Notifications *handler.NotificationHandler
	Users         *handler.UserHandler
}

func NewRouter(logger *slog.Logger, h Handlers, userRepo repository.UserRepository, hmacKey []byte) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	authMW := middleware.Auth(hmacKey)
	ensureUser := middleware.EnsureUser(userRepo, logger)

	jobs := r.Group("/jobs", authMW, ensureUser)
	jobs.POST("", h.Jobs.Create)
	jobs.GET("", h.Jobs.ListOpen)
	jobs.GET("/mine", h.Jobs.ListMine)
	jobs.GET("/:id", h.Jobs.Get)
	jobs.POST("/:id/cancel", h.Jobs.Cancel)
	jobs.POST("/:id/assign", h.Jobs.Assign)
	jobs.PATCH("/:id/status", h.Jobs.Advance)

	jobs.GET("/:id/matches", h.Matches.List)
	jobs.GET("/:id/matches/best", h.Matches.Best)
	jobs.POST("/:id/matches/search", h.Matches.Search)

	jobs.POST("/:id/bids", h.Bids.Submit)
	jobs.GET("/:id/bids", h.Bids.List)

	bids := r.Group("/bids", authMW, ensureUser)
	bids.POST("/:id/accept", h.Bids.Accept)
	bids.POST("/:id/reject", h.Bids.Reject)
	bids.POST("/:id/withdraw", h.Bids.Withdraw)

	printers := r.Group("/printers", authMW, ensureUser)
	printers.POST("", h.Printers.Register)
	printers.GET("", h.Printers.Search)
	printers.GET("/mine", h.Printers.ListMine)
	printers.GET("/:id", h.Printers.Get)
	printers.PATCH("/:id/status", h.Printers.SetStatus)

	r.GET("/notifications", authMW, ensureUser, h.Notifications.List)

	me := r.Group("/me", authMW, ensureUser)
	me.GET("", h.Users.Me)
	me.PUT("/email", h.Users.SetEmail)

	return r
}
