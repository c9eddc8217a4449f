package api

import (
	"context"
	"fmt"
	"time"

	"github.com/hellofresh/health-go/v5"

	"product-catalog-admin/internal/logging"
	"product-catalog-admin/internal/store"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// BackendCheckTimeout bounds one backend health probe.
const BackendCheckTimeout = 3 * time.Second

// BackendCheck reports whether the catalog backend answers a category list.
func BackendCheck(cs store.CategoryStorer) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if _, err := cs.ListCategories(ctx); err != nil {
			return fmt.Errorf("catalog backend unreachable: %w", err)
		}
		return nil
	}
}

// NewHealthHandler builds the /healthz handler.
func NewHealthHandler(cs store.CategoryStorer) (*health.Health, error) {
	h, err := health.New(
		health.WithComponent(health.Component{
			Name:    logging.ServiceName,
			Version: Version,
		}),
		health.WithChecks(health.Config{
			Name:    "catalog-backend",
			Timeout: BackendCheckTimeout,
			Check:   BackendCheck(cs),
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create health instance: %w", err)
	}
	return h, nil
}
