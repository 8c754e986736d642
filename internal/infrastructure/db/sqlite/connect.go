package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// New opens the embedded database behind dsn ("<path>?_pragma=...").
func New(ctx context.Context, logger *zap.Logger, dsn string) (*sql.DB, error) {
	path, _, _ := strings.Cut(dsn, "?")
	if dir := filepath.Dir(path); dir != "" && path != ":memory:" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping failed: %w", err)
	}

	logger.Info("db connected successfully", zap.String("driver", "sqlite"), zap.String("path", path))

	return db, nil
}
