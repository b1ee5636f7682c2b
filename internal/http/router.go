package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/nexus-manager/backend/internal/config"
	"github.com/nexus-manager/backend/internal/http/handlers"
	"github.com/nexus-manager/backend/internal/http/middleware"
	"github.com/nexus-manager/backend/internal/service"
	"github.com/nexus-manager/backend/internal/store"
	"github.com/nexus-manager/backend/internal/trello"

	_ "github.com/nexus-manager/backend/docs"
)

func Router(cfg config.Config, st *store.Store, trelloClient *trello.Client, auditor *service.Auditor, advisor *service.Advisor, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.CORSAllowed == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = []string{cfg.CORSAllowed}
	}
	r.Use(cors.New(corsCfg))

	h := &handlers.Handler{
		Store:     st,
		Trello:    trelloClient,
		Auditor:   auditor,
		Advisor:   advisor,
		Validator: validator.New(),
		Logger:    logger,
	}

	r.GET("/healthz", h.Healthz)

	api := r.Group("/api")
	{
		api.GET("/state", h.GetState)

		api.POST("/team", h.CreateTeamMember)
		api.PUT("/team/:id", h.UpdateTeamMember)
		api.DELETE("/team/:id", h.DeleteTeamMember)
		api.POST("/team/:id/pdi", h.GeneratePDI)

		api.POST("/projects", h.CreateProject)
		api.PUT("/projects/:id", h.UpdateProject)
		api.DELETE("/projects/:id", h.DeleteProject)
		api.POST("/projects/:id/risk", h.AssessProjectRisk)

		api.POST("/knowledge", h.CreateDoc)
		api.PUT("/knowledge/:id", h.UpdateDoc)
		api.DELETE("/knowledge/:id", h.DeleteDoc)
		api.POST("/knowledge/:id/analysis", h.AnalyzeDoc)

		api.PUT("/settings/trello", h.UpdateTrelloConfig)
		api.POST("/settings/trello/verify", h.VerifyTrelloConfig)
		api.PUT("/settings/ai", h.UpdateAIConfig)

		api.POST("/audit", h.StartAudit)
		api.POST("/audit/members/:id/analysis", h.AnalyzeMember)
		api.POST("/audit/sync", h.SyncAudit)
		api.DELETE("/audit", h.DiscardAudit)

		api.POST("/consultant/chat", h.ConsultantChat)
		api.POST("/consultant/analysis", h.QuickAnalysis)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
