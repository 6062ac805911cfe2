package bootstrap

import (
	"time"

	httpapi "github.com/GoSim-25-26J-441/issue-tracker/internal/api/http"
	"github.com/GoSim-25-26J-441/issue-tracker/internal/api/http/middleware"
	issueshttp "github.com/GoSim-25-26J-441/issue-tracker/internal/issues/http"
	"github.com/GoSim-25-26J-441/issue-tracker/internal/issues/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	AllowedOrigins []string
	Issues         *service.IssueService
	Log            *zap.Logger
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware(dep.Log))
	r.Use(cors.New(corsConfig(dep.AllowedOrigins)))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Issues)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api")
	issueshttp.New(dep.Issues).Register(api)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}

	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
