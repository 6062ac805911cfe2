package bootstrap

import (
	"context"
	"fmt"

	"github.com/GoSim-25-26J-441/issue-tracker/config"
	"github.com/GoSim-25-26J-441/issue-tracker/internal/issues/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// App is a fully wired issue tracker
type App struct {
	Router *gin.Engine
	Store  *Store
	log    *zap.Logger
}

// NewApp opens the configured store, seeds projects and builds the router
func NewApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	SetGinMode(cfg.App.Environment)

	store, err := OpenStore(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	issues := service.NewIssueService(store.Repo, log)
	if err := issues.SeedProjects(ctx, cfg.Store.SeedProjects); err != nil {
		store.Close(log)
		return nil, fmt.Errorf("seed projects: %w", err)
	}

	router := BuildRouter(RouterDeps{
		ServiceName:    cfg.App.ServiceName,
		Version:        cfg.App.Version,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Issues:         issues,
		Log:            log,
	})

	return &App{Router: router, Store: store, log: log}, nil
}

// Close releases the store
func (a *App) Close() {
	a.Store.Close(a.log)
}
