package rest

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"file-storage-api/internal/application/ports"
)

const bannerMessage = "Simple File Storage API"

type Pinger interface {
	Ping(ctx context.Context) error
}

type (
	RootResponse struct {
		Message         string   `json:"message"`
		Version         string   `json:"version"`
		UploadDir       string   `json:"upload_dir"`
		UploadDirExists bool     `json:"upload_dir_exists"`
		CorsOrigins     []string `json:"cors_origins"`
	}
	UploadDirectory struct {
		Path   string `json:"path"`
		Exists bool   `json:"exists"`
		IsDir  bool   `json:"is_dir"`
	}
	HealthResponse struct {
		Status          string          `json:"status"`
		Database        string          `json:"database"`
		UploadDirectory UploadDirectory `json:"upload_directory"`
		CorsOrigins     []string        `json:"cors_origins"`
	}
)

type OpsController struct {
	db      Pinger
	blobs   ports.BlobStore
	logger  *zap.Logger
	version string
	origins []string
}

func NewOpsController(
	r *gin.Engine,
	db Pinger,
	blobs ports.BlobStore,
	logger *zap.Logger,
	version string,
	origins []string,
) *OpsController {
	oc := &OpsController{
		db:      db,
		blobs:   blobs,
		logger:  logger,
		version: version,
		origins: origins,
	}

	r.GET(RouteRoot, oc.RootHandler)
	r.GET(RouteHealth, oc.HealthHandler)
	r.GET(RouteMetrics, gin.WrapH(promhttp.Handler()))

	return oc
}

func (oc *OpsController) RootHandler(c *gin.Context) {
	oc.logger.Info("root endpoint accessed")
	st := oc.blobs.Status(c.Request.Context())

	c.JSON(http.StatusOK, RootResponse{
		Message:         bannerMessage,
		Version:         oc.version,
		UploadDir:       st.Location,
		UploadDirExists: st.Exists,
		CorsOrigins:     oc.origins,
	})
}

// HealthHandler always answers 200; an unreachable database shows up in the
// body only.
func (oc *OpsController) HealthHandler(c *gin.Context) {
	ctx := c.Request.Context()

	resp := HealthResponse{
		Status:      "healthy",
		Database:    "connected",
		CorsOrigins: oc.origins,
	}
	if err := oc.db.Ping(ctx); err != nil {
		oc.logger.Error("database health check failed", zap.Error(err))
		resp.Status = "unhealthy"
		resp.Database = "disconnected"
	}

	st := oc.blobs.Status(ctx)
	resp.UploadDirectory = UploadDirectory{
		Path:   st.Location,
		Exists: st.Exists,
		IsDir:  st.Exists && st.IsDir,
	}

	oc.logger.Info("health check completed",
		zap.String("status", resp.Status),
		zap.String("database_status", resp.Database),
		zap.Bool("upload_dir_exists", st.Exists),
	)

	c.JSON(http.StatusOK, resp)
}
