package file

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	domain "file-storage-api/internal/domain/file"
	"file-storage-api/internal/infrastructure/db/postgres"
)

type Repository struct {
	db postgres.DB
}

func NewRepository(db postgres.DB) *Repository {
	return &Repository{db: db}
}

// Init provisions the files table if it is missing.
func (r *Repository) Init(ctx context.Context) error {
	for _, q := range []string{CreateFilesTable, CreateFilesEmailIndex} {
		if _, err := r.db.Exec(ctx, q); err != nil {
			return fmt.Errorf("init files table: %w", err)
		}
	}
	return nil
}

func (r *Repository) FetchByPublicID(ctx context.Context, publicID string) (*domain.File, error) {
	f := new(File)
	err := r.db.QueryRow(ctx, SelectFileByPublicID, publicID).Scan(
		&f.PublicID,
		&f.PrivateID,

		&f.Email,
		&f.Label,
		&f.OriginalFilename,
		&f.FileExtension,
		&f.ContentType,
		&f.FileSize,

		&f.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return fromDBModel(f), nil
}

func (r *Repository) CreateFile(ctx context.Context, req *domain.File) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err = tx.Exec(
		ctx,
		InsertFile,
		req.PublicID, req.PrivateID, req.Email, req.Label, req.OriginalFilename,
		req.FileExtension, req.ContentType, req.FileSize, req.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert file: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *Repository) DeleteFile(ctx context.Context, publicID string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, DeleteFileByPublicID, publicID)
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("File not found")
	}

	return tx.Commit(ctx)
}

func (r *Repository) Ping(ctx context.Context) error { return r.db.Ping(ctx) }
