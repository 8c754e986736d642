package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"file-storage-api/internal/application/ports"
)

// Store keeps blobs as files in a single flat directory.
type Store struct {
	root   string
	logger *zap.Logger
}

// New returns a store rooted at root, creating the directory if needed.
func New(root string, logger *zap.Logger) (*Store, error) {
	if root == "" {
		root = "./uploads"
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve upload dir: %w", err)
	}
	if err = os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	logger.Info("upload dir ready", zap.String("path", abs))

	return &Store{root: abs, logger: logger}, nil
}

func (s *Store) Root() string { return s.root }

// pathFor rejects names that would leave the flat root.
func (s *Store) pathFor(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("empty blob name")
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return "", fmt.Errorf("invalid blob name %q", name)
	}
	return filepath.Join(s.root, name), nil
}

func (s *Store) Write(ctx context.Context, name string, r io.Reader) (int64, error) {
	p, err := s.pathFor(name)
	if err != nil {
		return 0, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("read upload: %w", err)
	}
	if err = os.WriteFile(p, data, 0o644); err != nil {
		return 0, fmt.Errorf("write blob: %w", err)
	}

	return int64(len(data)), nil
}

func (s *Store) Stat(ctx context.Context, name string) (ports.BlobStat, error) {
	p, err := s.pathFor(name)
	if err != nil {
		return ports.BlobStat{}, err
	}

	fi, err := os.Stat(p)
	if errors.Is(err, fs.ErrNotExist) {
		return ports.BlobStat{}, nil
	}
	if err != nil {
		return ports.BlobStat{}, fmt.Errorf("stat blob: %w", err)
	}

	return ports.BlobStat{Exists: true, Regular: fi.Mode().IsRegular()}, nil
}

func (s *Store) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	p, err := s.pathFor(name)
	if err != nil {
		return nil, err
	}
	return os.Open(p)
}

func (s *Store) Delete(ctx context.Context, name string) error {
	p, err := s.pathFor(name)
	if err != nil {
		return err
	}
	return os.Remove(p)
}

func (s *Store) Status(ctx context.Context) ports.StorageStatus {
	st := ports.StorageStatus{Location: s.root}

	fi, err := os.Stat(s.root)
	if err != nil {
		return st
	}
	st.Exists = true
	st.IsDir = fi.IsDir()

	return st
}
