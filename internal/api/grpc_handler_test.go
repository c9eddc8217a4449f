package api

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

func checkStatus(t *testing.T, server *health.Server, service string) grpc_health_v1.HealthCheckResponse_ServingStatus {
	t.Helper()
	resp, err := server.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{Service: service})
	require.NoError(t, err)
	return resp.GetStatus()
}

func TestHealthProber_TracksBackend(t *testing.T) {
	ms := new(MockCatalogStore)
	ms.On("ListCategories", mock.Anything).Return(testCategories, nil).Once()
	ms.On("ListCategories", mock.Anything).Return(nil, errors.New("connection refused")).Once()

	server := health.NewServer()
	prober := NewHealthProber(ms, server, 0, zerolog.Nop())

	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, prober.Probe(context.Background()))
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, checkStatus(t, server, HealthServiceName))

	assert.Equal(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING, prober.Probe(context.Background()))
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING, checkStatus(t, server, ""))
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING, checkStatus(t, server, HealthServiceName))
	ms.AssertExpectations(t)
}
