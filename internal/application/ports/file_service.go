package ports

import (
	"context"
	"io"

	"file-storage-api/internal/domain/file"
)

type UploadInput struct {
	Email    string
	Label    string
	Filename string
	Content  io.Reader
}

type FileService interface {
	Upload(ctx context.Context, in UploadInput) (*file.UploadResult, error)
	Download(ctx context.Context, publicID string) (*file.Download, error)
	GetInfo(ctx context.Context, publicID string) (*file.Info, error)
	Delete(ctx context.Context, publicID string) (*file.DeleteResult, error)
}
