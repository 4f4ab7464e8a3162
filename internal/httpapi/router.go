package httpapi

import (
	"net/http"

	"sporcu-lisans-takip/pkg/config"
	"sporcu-lisans-takip/pkg/health"
	"sporcu-lisans-takip/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

var Module = fx.Module("httpapi",
	fx.Provide(
		NewLicenseHandler,
		NewRefdataHandler,
		NewRouter,
	),
)

type RouterParams struct {
	fx.In
	Config   *config.Config
	Licenses *LicenseHandler
	Refdata  *RefdataHandler
	Health   health.HealthService
}

// NewRouter wires the full HTTP surface. Mutating routes require the
// X-Actor-ID header so the audit trail always records who acted.
func NewRouter(p RouterParams) http.Handler {
	if p.Config.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.Error())

	r.GET("/healthz", p.Health.Liveness)
	r.GET("/readyz", p.Health.Readiness)

	api := r.Group("/api")
	actor := middleware.RequireActor()

	licenses := api.Group("/licenses")
	{
		licenses.POST("", actor, p.Licenses.Issue)
		licenses.GET("", p.Licenses.List)
		licenses.GET("/:id", p.Licenses.Get)
		licenses.DELETE("/:id", actor, p.Licenses.Purge)
		licenses.POST("/:id/renew", actor, p.Licenses.Renew)
		licenses.POST("/:id/suspend", actor, p.Licenses.Suspend)
		licenses.POST("/:id/cancel", actor, p.Licenses.Cancel)
		licenses.PUT("/:id/notes", actor, p.Licenses.UpdateNotes)
		licenses.GET("/:id/history", p.Licenses.History)
	}

	reports := api.Group("/reports/licenses")
	{
		reports.GET("/expired", p.Licenses.Expired)
		reports.GET("/expiring-soon", p.Licenses.ExpiringSoon)
		reports.GET("/statistics", p.Licenses.Statistics)
	}

	athletes := api.Group("/athletes")
	{
		athletes.POST("", actor, p.Refdata.CreateAthlete)
		athletes.GET("", p.Refdata.ListAthletes)
		athletes.GET("/:id", p.Refdata.GetAthlete)
		athletes.DELETE("/:id", actor, p.Refdata.DeactivateAthlete)
	}

	sports := api.Group("/sports")
	{
		sports.POST("", actor, p.Refdata.CreateSport)
		sports.GET("", p.Refdata.ListSports)
	}

	clubs := api.Group("/clubs")
	{
		clubs.POST("", actor, p.Refdata.CreateClub)
		clubs.GET("", p.Refdata.ListClubs)
	}

	types := api.Group("/license-types")
	{
		types.POST("", actor, p.Refdata.CreateLicenseType)
		types.GET("", p.Refdata.ListLicenseTypes)
	}

	categories := api.Group("/license-categories")
	{
		categories.POST("", actor, p.Refdata.CreateLicenseCategory)
		categories.GET("", p.Refdata.ListLicenseCategories)
	}

	return r
}
