package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"file-storage-api/internal/application/services"
	"file-storage-api/internal/infrastructure/blob/fs"
	"file-storage-api/internal/infrastructure/db/sqlite"
	sqliteFile "file-storage-api/internal/infrastructure/db/sqlite/file"
	"file-storage-api/internal/infrastructure/metrics"
	"file-storage-api/internal/infrastructure/mq"
	"file-storage-api/internal/interface/api/rest/dto/file"
)

// newStack wires the real sqlite and filesystem stores behind the router.
func newStack(t *testing.T) (*gin.Engine, *fs.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	dir := t.TempDir()

	db, err := sqlite.New(ctx, zap.NewNop(), filepath.Join(dir, "files.db")+"?_pragma=busy_timeout(5000)")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := sqliteFile.NewRepository(db)
	require.NoError(t, repo.Init(ctx))

	store, err := fs.New(filepath.Join(dir, "uploads"), zap.NewNop())
	require.NoError(t, err)

	svc := services.NewFileService(store, repo, mq.Nop{}, metrics.NewUnregisteredCounter(), zap.NewNop())

	r := gin.New()
	NewFileController(r, svc, zap.NewNop(), 0)
	r.GET(RouteHealth, (&OpsController{db: repo, blobs: store, logger: zap.NewNop(), version: "test", origins: []string{"*"}}).HealthHandler)

	return r, store
}

func upload(t *testing.T, r *gin.Engine, name string, content []byte) file.UploadResponse {
	t.Helper()
	rr := doMultipartReq(t, r, RouteUpload, okFields, "file", name, content)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var res file.UploadResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	require.True(t, res.Success)
	return res
}

func TestIntegration_UploadDownloadRoundTrip(t *testing.T) {
	r, _ := newStack(t)
	content := bytes.Repeat([]byte("0123456789"), 2000)

	res := upload(t, r, "Quarterly Report.txt", content)
	assert.Equal(t, "/download/"+res.PublicID, res.PublicURL)
	assert.Equal(t, "File 'Quarterly Report.txt' uploaded successfully (20,000 bytes)", res.Message)

	rr := doReq(t, r, http.MethodGet, res.PublicURL)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, content, rr.Body.Bytes())
	assert.Equal(t, strconv.Itoa(len(content)), rr.Header().Get("Content-Length"))
	assert.Equal(t, `attachment; filename="quarterly-report.txt"`, rr.Header().Get("Content-Disposition"))
}

func TestIntegration_UploadRejectsMissingExtension(t *testing.T) {
	r, store := newStack(t)

	rr := doMultipartReq(t, r, RouteUpload, okFields, "file", "noext", []byte("anything"))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "File must have an extension", decodeDetail(t, rr))

	entries, err := os.ReadDir(store.Root())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestIntegration_InfoReflectsBlobDrift(t *testing.T) {
	r, store := newStack(t)
	res := upload(t, r, "a.txt", []byte("abc"))

	rr := doReq(t, r, http.MethodGet, "/api/file-info/"+res.PublicID)
	require.Equal(t, http.StatusOK, rr.Code)
	var info file.InfoResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &info))
	assert.True(t, info.FileExistsOnDisk)
	assert.Equal(t, int64(3), info.FileSize)
	assert.Equal(t, "jane@example.com", info.Email)

	entries, err := os.ReadDir(store.Root())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0].Name(), res.PublicID)
	require.NoError(t, os.Remove(filepath.Join(store.Root(), entries[0].Name())))

	rr = doReq(t, r, http.MethodGet, "/api/file-info/"+res.PublicID)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &info))
	assert.False(t, info.FileExistsOnDisk)

	rr = doReq(t, r, http.MethodGet, res.PublicURL)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "File not found on disk", decodeDetail(t, rr))

	// the record goes even though the blob is already gone
	rr = doReq(t, r, http.MethodDelete, "/api/file/"+res.PublicID)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestIntegration_DeleteThenEverything404(t *testing.T) {
	r, store := newStack(t)
	res := upload(t, r, "photo.png", []byte("\x89PNG"))

	rr := doReq(t, r, http.MethodDelete, "/api/file/"+res.PublicID)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true,"message":"File 'photo.png' deleted successfully"}`, rr.Body.String())

	entries, err := os.ReadDir(store.Root())
	require.NoError(t, err)
	assert.Empty(t, entries)

	for _, req := range []struct{ method, path string }{
		{http.MethodGet, res.PublicURL},
		{http.MethodGet, "/api/file-info/" + res.PublicID},
		{http.MethodDelete, "/api/file/" + res.PublicID},
	} {
		rr = doReq(t, r, req.method, req.path)
		assert.Equal(t, http.StatusNotFound, rr.Code, req.path)
		assert.Equal(t, "File not found", decodeDetail(t, rr), req.path)
	}
}

func TestIntegration_Health(t *testing.T) {
	r, store := newStack(t)

	rr := doReq(t, r, http.MethodGet, RouteHealth)
	require.Equal(t, http.StatusOK, rr.Code)

	var h HealthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &h))
	assert.Equal(t, "healthy", h.Status)
	assert.Equal(t, "connected", h.Database)
	assert.Equal(t, store.Root(), h.UploadDirectory.Path)
	assert.True(t, h.UploadDirectory.IsDir)
}
