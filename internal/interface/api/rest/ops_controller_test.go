package rest

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"file-storage-api/internal/application/ports"
)

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

type fakeBlobStatus struct {
	ports.BlobStore
	st ports.StorageStatus
}

func (b fakeBlobStatus) Status(context.Context) ports.StorageStatus { return b.st }

func setupRouterOps(t *testing.T, db Pinger, st ports.StorageStatus) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	NewOpsController(r, db, fakeBlobStatus{st: st}, zap.NewNop(), "1.0.0", []string{"*"})

	return r
}

func TestOpsController_RootHandler(t *testing.T) {
	r := setupRouterOps(t, fakePinger{}, ports.StorageStatus{Location: "/srv/uploads", Exists: true, IsDir: true})

	rr := doReq(t, r, http.MethodGet, RouteRoot)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{
		"message": "Simple File Storage API",
		"version": "1.0.0",
		"upload_dir": "/srv/uploads",
		"upload_dir_exists": true,
		"cors_origins": ["*"]
	}`, rr.Body.String())
}

func TestOpsController_HealthHandler(t *testing.T) {
	tests := []struct {
		name     string
		pingErr  error
		st       ports.StorageStatus
		wantBody string
	}{
		{
			name: "healthy",
			st:   ports.StorageStatus{Location: "/srv/uploads", Exists: true, IsDir: true},
			wantBody: `{
				"status": "healthy",
				"database": "connected",
				"upload_directory": {"path": "/srv/uploads", "exists": true, "is_dir": true},
				"cors_origins": ["*"]
			}`,
		},
		{
			name:    "database down still answers 200",
			pingErr: errors.New("connection refused"),
			st:      ports.StorageStatus{Location: "/srv/uploads"},
			wantBody: `{
				"status": "unhealthy",
				"database": "disconnected",
				"upload_directory": {"path": "/srv/uploads", "exists": false, "is_dir": false},
				"cors_origins": ["*"]
			}`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			r := setupRouterOps(t, fakePinger{err: tt.pingErr}, tt.st)
			rr := doReq(t, r, http.MethodGet, RouteHealth)
			require.Equal(t, http.StatusOK, rr.Code)
			assert.JSONEq(t, tt.wantBody, rr.Body.String())
		})
	}
}

func TestOpsController_Metrics(t *testing.T) {
	r := setupRouterOps(t, fakePinger{}, ports.StorageStatus{})
	rr := doReq(t, r, http.MethodGet, RouteMetrics)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "go_goroutines")
}
