// Package storage provides binary storage backends for product media files.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/pimsync/connector/internal/infrastructure/config"
	"github.com/pimsync/connector/internal/infrastructure/shopware"
)

// Ensure LocalBinaryStorage implements shopware.BinaryStorage
var _ shopware.BinaryStorage = (*LocalBinaryStorage)(nil)

// LocalBinaryStorage reads media binaries from a local directory tree.
// Media paths are resolved relative to the configured root directory.
// Intended for development and single-host deployments.
type LocalBinaryStorage struct {
	root string
}

// NewLocalBinaryStorage creates a new LocalBinaryStorage rooted at dir.
func NewLocalBinaryStorage(dir string) (*LocalBinaryStorage, error) {
	if dir == "" {
		return nil, errors.New("storage directory is required")
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid storage directory: %w", err)
	}

	return &LocalBinaryStorage{root: abs}, nil
}

// Read loads the file stored under the media path.
// Paths that resolve outside the root directory are rejected.
func (s *LocalBinaryStorage) Read(ctx context.Context, path string) ([]byte, error) {
	if path == "" {
		return nil, errors.New("storage key is required")
	}

	full := filepath.Join(s.root, filepath.FromSlash(path))
	if !strings.HasPrefix(full, s.root+string(filepath.Separator)) {
		return nil, fmt.Errorf("storage: path escapes root: %s", path)
	}

	content, err := os.ReadFile(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, path)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return content, nil
}

// NewBinaryStorage builds the storage backend selected by the configuration.
func NewBinaryStorage(cfg *config.StorageConfig, logger *zap.Logger) (shopware.BinaryStorage, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	switch cfg.Driver {
	case "s3":
		return NewS3BinaryStorage(cfg, WithLogger(logger))
	case "local":
		return NewLocalBinaryStorage(cfg.LocalDir)
	default:
		return nil, fmt.Errorf("unknown storage driver: %q", cfg.Driver)
	}
}
