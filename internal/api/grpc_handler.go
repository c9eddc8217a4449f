package api

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"product-catalog-admin/internal/store"
)

// HealthServiceName is the service name reported next to the overall ("")
// status on the gRPC health service.
const HealthServiceName = "catalog.admin.v1.CatalogAdmin"

// HealthProber keeps the gRPC health status in step with the backend.
type HealthProber struct {
	categoryStore store.CategoryStorer
	server        *health.Server
	interval      time.Duration
	log           zerolog.Logger
}

// NewHealthProber creates a prober that updates server every interval.
func NewHealthProber(cs store.CategoryStorer, server *health.Server, interval time.Duration, log zerolog.Logger) *HealthProber {
	return &HealthProber{
		categoryStore: cs,
		server:        server,
		interval:      interval,
		log:           log,
	}
}

// Probe checks the backend once and records the result.
func (p *HealthProber) Probe(ctx context.Context) grpc_health_v1.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(ctx, BackendCheckTimeout)
	defer cancel()

	status := grpc_health_v1.HealthCheckResponse_SERVING
	if err := BackendCheck(p.categoryStore)(ctx); err != nil {
		p.log.Warn().Err(err).Msg("backend health probe failed")
		status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}
	p.server.SetServingStatus("", status)
	p.server.SetServingStatus(HealthServiceName, status)
	return status
}

// Run probes immediately and then on every tick until ctx is done.
func (p *HealthProber) Run(ctx context.Context) {
	p.Probe(ctx)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Probe(ctx)
		}
	}
}
