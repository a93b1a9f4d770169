// Package listings wires the listings bounded context: repository, search
// orchestrator, public endpoints, and the admin review surface.
package listings

import (
	apphttp "storescout_backend/internal/http"
	"storescout_backend/internal/listings/handler"
	"storescout_backend/internal/listings/repository"
	"storescout_backend/internal/listings/service"
	"storescout_backend/platform/config"
	"storescout_backend/platform/events"
	"storescout_backend/platform/logger"
	"storescout_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	svc     *service.Service
	handler *handler.Handler
	admin   *handler.AdminHandler
}

func NewModule(pool *pgxpool.Pool, bus events.Bus, geocoder service.Geocoder, val *validator.Validator, cfg config.SearchConfig, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, geocoder, bus, cfg, log)
	return &Module{
		svc:     svc,
		handler: handler.NewHandler(svc, val),
		admin:   handler.NewAdminHandler(svc),
	}
}

// Service exposes the orchestrator for non-HTTP consumers (scheduler, CLIs).
func (m *Module) Service() *service.Service {
	return m.svc
}

func (m *Module) Name() string {
	return "listings"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/listings")
	group.GET("/search", m.handler.Search)
	group.GET("/map", m.handler.MapView)
	group.GET("/categories", m.handler.Categories)

	submit := group.Group("")
	submit.Use(ctx.SubmissionRateLimiter.RateLimit())
	submit.POST("/stores", m.handler.SubmitStore)
	submit.POST("/tips", m.handler.SubmitTip)

	admin := ctx.Admin.Group("/listings")
	admin.GET("/pending", m.admin.PendingReview)
	admin.POST("/:kind/:id/approve", m.admin.Approve)
	admin.POST("/:kind/:id/reject", m.admin.Reject)
}

var _ apphttp.Module = (*Module)(nil)
