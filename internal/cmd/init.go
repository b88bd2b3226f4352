package cmd

import (
	"context"

	"github.com/Malowking/docchat/core/config"
	"github.com/Malowking/docchat/core/docstore"
	"github.com/Malowking/docchat/core/engine"
	"github.com/Malowking/docchat/core/extract"
	"github.com/Malowking/docchat/core/file_store"
	"github.com/Malowking/docchat/core/models"
	"github.com/Malowking/docchat/internal/logic/history"
	"github.com/gogf/gf/v2/frame/g"
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

	// Initialize document storage
	if err = file_store.Init(ctx); err != nil {
		g.Log().Fatalf(ctx, "File storage initialization failed: %v", err)
	}

	// Initialize text extraction
	if err = extract.Init(ctx); err != nil {
		g.Log().Fatalf(ctx, "Extractor initialization failed: %v", err)
	}

	// Initialize document store and background processing
	if err = docstore.Init(ctx); err != nil {
		g.Log().Fatalf(ctx, "Document store initialization failed: %v", err)
	}

	// Initialize inference engine and select a default model
	engine.Default.Init(ctx)

	// Initialize model catalog
	models.Init(ctx)

	// Initialize chat history
	if err = history.Init(ctx); err != nil {
		g.Log().Fatalf(ctx, "Chat history initialization failed: %v", err)
	}

	g.Log().Info(ctx, "✓ All components initialized successfully")
}
