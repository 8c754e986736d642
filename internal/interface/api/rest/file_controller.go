package rest

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"file-storage-api/internal/application/ports"
	domain "file-storage-api/internal/domain/file"
	"file-storage-api/internal/interface/api/rest/dto/file"
	"file-storage-api/internal/interface/api/rest/validator"
)

const (
	// room for the multipart envelope and the text fields
	multipartOverhead = int64(1 << 20)

	downloadCacheControl = "public, max-age=3600"
)

type FileController struct {
	fileService ports.FileService
	logger      *zap.Logger
	maxUpload   int64
}

// NewFileController registers the file routes. maxUpload caps the size of an
// uploaded file in bytes; 0 disables the cap.
func NewFileController(
	r *gin.Engine,
	fileService ports.FileService,
	logger *zap.Logger,
	maxUpload int64,
) *FileController {
	fc := &FileController{
		fileService: fileService,
		logger:      logger,
		maxUpload:   maxUpload,
	}

	r.POST(RouteUpload, fc.UploadHandler)
	r.GET(RouteDownload, fc.DownloadHandler)
	r.GET(RouteFileInfo, fc.FileInfoHandler)
	r.DELETE(RouteFile, fc.DeleteHandler)

	return fc
}

func (fc *FileController) UploadHandler(c *gin.Context) {
	if fc.maxUpload > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, fc.maxUpload+multipartOverhead)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			fc.tooLarge(c)
		case errors.Is(err, http.ErrMissingFile) && c.Request.MultipartForm != nil && len(c.Request.MultipartForm.Value["file"]) > 0:
			// a part named "file" with an empty filename is parsed as a plain value
			c.JSON(http.StatusBadRequest, file.ErrorResponse{Detail: "File must have a filename"})
		default:
			c.JSON(http.StatusBadRequest, file.ErrorResponse{Detail: "file is required"})
		}
		return
	}
	if fc.maxUpload > 0 && fh.Size > fc.maxUpload {
		fc.tooLarge(c)
		return
	}

	email, label := c.PostForm("email"), c.PostForm("label")
	if errs := validator.ValidateUpload(email, label); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": validator.Detail(errs), "errors": errs})
		return
	}

	src, err := fh.Open()
	if err != nil {
		fc.internalError(c, "Upload failed", err)
		return
	}
	defer src.Close()

	res, err := fc.fileService.Upload(c.Request.Context(), ports.UploadInput{
		Email:    email,
		Label:    label,
		Filename: fh.Filename,
		Content:  src,
	})
	if err != nil {
		fc.serviceError(c, "Upload failed", err)
		return
	}

	c.JSON(http.StatusOK, file.ToUploadResponse(*res))
}

func (fc *FileController) DownloadHandler(c *gin.Context) {
	d, err := fc.fileService.Download(c.Request.Context(), c.Param("public_id"))
	if err != nil {
		fc.serviceError(c, "Download failed", err)
		return
	}
	defer d.Body.Close()

	c.DataFromReader(
		http.StatusOK,
		d.File.FileSize,
		d.File.ContentType,
		d.Body,
		map[string]string{
			"Content-Disposition":    fmt.Sprintf(`attachment; filename="%s"`, d.FileName),
			"Cache-Control":          downloadCacheControl,
			"X-Content-Type-Options": "nosniff",
		},
	)
}

func (fc *FileController) FileInfoHandler(c *gin.Context) {
	info, err := fc.fileService.GetInfo(c.Request.Context(), c.Param("public_id"))
	if err != nil {
		fc.serviceError(c, "File info retrieval failed", err)
		return
	}

	c.JSON(http.StatusOK, file.ToInfoResponse(*info))
}

func (fc *FileController) DeleteHandler(c *gin.Context) {
	res, err := fc.fileService.Delete(c.Request.Context(), c.Param("public_id"))
	if err != nil {
		fc.serviceError(c, "Delete failed", err)
		return
	}

	c.JSON(http.StatusOK, file.ToDeleteResponse(*res))
}

// serviceError maps domain errors to 400/404 with their detail and anything
// else to 500 with the raw message behind prefix.
func (fc *FileController) serviceError(c *gin.Context, prefix string, err error) {
	var de *domain.Error
	switch {
	case errors.Is(err, domain.ErrInvalidInput) && errors.As(err, &de):
		c.JSON(http.StatusBadRequest, file.ErrorResponse{Detail: de.Detail})
	case errors.Is(err, domain.ErrNotFound) && errors.As(err, &de):
		c.JSON(http.StatusNotFound, file.ErrorResponse{Detail: de.Detail})
	default:
		fc.internalError(c, prefix, err)
	}
}

func (fc *FileController) internalError(c *gin.Context, prefix string, err error) {
	fc.logger.Error(prefix,
		zap.String("route", c.FullPath()),
		zap.String("public_id", c.Param("public_id")),
		zap.Error(err),
	)
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, file.ErrorResponse{Detail: prefix + ": " + err.Error()})
}

func (fc *FileController) tooLarge(c *gin.Context) {
	c.JSON(http.StatusRequestEntityTooLarge, file.ErrorResponse{
		Detail: "File too large (max " + strconv.FormatInt(fc.maxUpload, 10) + " bytes)",
	})
}
