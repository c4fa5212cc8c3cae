package cmd

import (
	"context"

	"github.com/gogf/gf/v2/frame/g"

	"github.com/janani-health/janani/core/cache"
	"github.com/janani-health/janani/core/config"
	"github.com/janani-health/janani/core/file_store"
	"github.com/janani-health/janani/internal/dao"
	"github.com/janani-health/janani/internal/service"
)

// init initializes all components of the application
func init() {
	ctx := context.Background()

	// Validate configuration before initializing components
	g.Log().Info(ctx, "Validating application configuration...")
	err := config.ValidateConfiguration(ctx)
	if err != nil {
		g.Log().Fatalf(ctx, "Configuration validation failed:\n%v", err)
	}

	// Initialize database
	err = dao.InitDB()
	if err != nil {
		g.Log().Fatalf(ctx, "Database connection initialization failed: %v", err)
	}

	// Redis is optional; the response cache degrades to its in-memory tier.
	if err = cache.InitRedis(ctx); err != nil {
		g.Log().Warningf(ctx, "Redis initialization failed, response cache runs in-memory only: %v", err)
	}

	// Initialize audio storage
	file_store.InitStorage()

	// Initialize the query pipeline
	if err = service.InitPipeline(ctx); err != nil {
		g.Log().Fatalf(ctx, "Pipeline initialization failed: %v", err)
	}

	g.Log().Info(ctx, "✓ All components initialized successfully")
}
