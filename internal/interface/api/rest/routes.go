package rest

const (
	// api
	RouteApi = "/api"

	// files
	RouteUpload   = RouteApi + "/upload"
	RouteFileInfo = RouteApi + "/file-info/:public_id"
	RouteFile     = RouteApi + "/file/:public_id"
	RouteDownload = "/download/:public_id"

	// ops
	RouteRoot    = "/"
	RouteHealth  = "/health"
	RouteMetrics = "/metrics"
)
