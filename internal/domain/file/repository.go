package file

import "context"

type Repository interface {
	// FetchByPublicID returns nil, nil when no record exists.
	FetchByPublicID(ctx context.Context, publicID string) (*File, error)
	CreateFile(ctx context.Context, f *File) error
	DeleteFile(ctx context.Context, publicID string) error
	Ping(ctx context.Context) error
}
