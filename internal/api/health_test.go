package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{name: "backend reachable", wantCode: http.StatusOK},
		{name: "backend down", err: errors.New("connection refused"), wantCode: http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ms := new(MockCatalogStore)
			if tt.err != nil {
				ms.On("ListCategories", mock.Anything).Return(nil, tt.err)
			} else {
				ms.On("ListCategories", mock.Anything).Return(testCategories, nil)
			}

			h, err := NewHealthHandler(ms)
			require.NoError(t, err)

			rr := httptest.NewRecorder()
			h.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
			assert.Equal(t, tt.wantCode, rr.Code)
			if tt.err != nil {
				assert.Contains(t, rr.Body.String(), "catalog-backend")
			}
		})
	}
}
