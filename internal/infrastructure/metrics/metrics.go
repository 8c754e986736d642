package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Values of the "result" label.
const (
	AppRequests     = "app_requests_total"
	FilesUploaded   = "files_uploaded_total"
	FilesDownloaded = "files_downloaded_total"
	FilesDeleted    = "files_deleted_total"
	BytesUploaded   = "bytes_uploaded_total"
	BlobsMissing    = "blobs_missing_total"
)

var counterOpts = prometheus.CounterOpts{
	Namespace: "filestorage",
	Name:      "general_counters",
	Help:      "File storage request and file operation counters.",
}

// NewCounter registers with the default registry, which /metrics serves. Call
// it once per process.
func NewCounter() *prometheus.CounterVec {
	return promauto.NewCounterVec(counterOpts, []string{"result"})
}

// NewUnregisteredCounter is for tests, which build many.
func NewUnregisteredCounter() *prometheus.CounterVec {
	return prometheus.NewCounterVec(counterOpts, []string{"result"})
}
