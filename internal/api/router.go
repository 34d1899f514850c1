package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/jwhitfield/fairway/internal/api/handlers"
	"github.com/jwhitfield/fairway/internal/api/middleware"
	"github.com/jwhitfield/fairway/internal/services"
	"github.com/jwhitfield/fairway/pkg/config"
)

// Services bundles everything the HTTP layer needs.
type Services struct {
	Auth    *services.AuthService
	Courses *services.CourseService
	Rounds  *services.RoundService
	Live    *services.LiveHub
}

// SetupRoutes wires all handlers onto a gin engine.
func SetupRoutes(router *gin.Engine, svc Services, cfg *config.Config, logger *logrus.Logger) {
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.CorsOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	authHandler := handlers.NewAuthHandler(svc.Auth, logger)
	coursesHandler := handlers.NewCoursesHandler(svc.Courses, logger)
	roundsHandler := handlers.NewRoundsHandler(svc.Rounds, svc.Auth, logger)
	liveHandler := handlers.NewLiveHandler(svc.Live, svc.Rounds, cfg.CorsOrigins, logger)

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/activate", authHandler.Activate)
	}

	protected := v1.Group("")
	protected.Use(middleware.AuthRequired(cfg.JWTSecret))
	{
		protected.GET("/users/me", authHandler.Me)
		protected.PUT("/users/me/handicap", authHandler.UpdateHandicap)

		protected.POST("/courses", coursesHandler.Create)
		protected.GET("/courses", coursesHandler.List)
		protected.GET("/courses/:id", coursesHandler.Get)

		protected.POST("/rounds", roundsHandler.Start)
		protected.GET("/rounds", roundsHandler.List)
		protected.POST("/rounds/switch", roundsHandler.Switch)
		protected.GET("/rounds/:id", roundsHandler.Get)
		protected.PATCH("/rounds/:id/holes/:holeNumber", roundsHandler.RecordHole)
		protected.POST("/rounds/:id/save", roundsHandler.Save)
		protected.POST("/rounds/:id/finish", roundsHandler.Finish)
		protected.GET("/rounds/:id/live", liveHandler.Follow)

		protected.POST("/admin/rounds/backfill", roundsHandler.Backfill)
	}
}
