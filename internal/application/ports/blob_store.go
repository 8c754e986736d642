package ports

import (
	"context"
	"io"
)

type (
	BlobStat struct {
		Exists  bool
		Regular bool
	}

	StorageStatus struct {
		Location string
		Exists   bool
		IsDir    bool
	}
)

type BlobStore interface {
	// Write buffers r fully and stores it under name, replacing any previous
	// blob. It returns the number of bytes stored.
	Write(ctx context.Context, name string, r io.Reader) (int64, error)
	Stat(ctx context.Context, name string) (BlobStat, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Delete(ctx context.Context, name string) error
	Status(ctx context.Context) StorageStatus
}
