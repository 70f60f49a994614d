package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/atlaslearn/atlas-backend/internal/http/handlers"
	httpMW "github.com/atlaslearn/atlas-backend/internal/http/middleware"
	"github.com/atlaslearn/atlas-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AuthHandler    *httpH.AuthHandler
	AuthMiddleware *httpMW.AuthMiddleware

	RoadmapHandler *httpH.RoadmapHandler
	SearchHandler  *httpH.SearchHandler
	QuizHandler    *httpH.QuizHandler
	LibraryHandler *httpH.LibraryHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/health", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
		}
		if cfg.HealthHandler != nil {
			api.GET("/status", cfg.HealthHandler.Status)
		}

		// Search (public)
		if cfg.SearchHandler != nil {
			api.POST("/search/:type", cfg.SearchHandler.Search)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Auth (protected)
		if cfg.AuthHandler != nil {
			protected.POST("/refresh", cfg.AuthHandler.Refresh)
			protected.POST("/logout", cfg.AuthHandler.Logout)
		}

		// Roadmaps
		if cfg.RoadmapHandler != nil {
			protected.POST("/roadmap", cfg.RoadmapHandler.Build)
			protected.GET("/roadmap/:id", cfg.RoadmapHandler.Get)
			protected.GET("/roadmaps", cfg.RoadmapHandler.List)
		}

		// Quizzes
		if cfg.QuizHandler != nil {
			protected.POST("/quiz/generate", cfg.QuizHandler.Generate)
		}

		// Library
		if cfg.LibraryHandler != nil {
			protected.POST("/library/documents", cfg.LibraryHandler.IngestDocuments)
			protected.GET("/library/stats", cfg.LibraryHandler.Stats)
		}
	}

	return r
}
