package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/viveksanandiya/pdf-annotator/internal/config"
)

// ErrNotExist is returned by Open when the named blob is missing. Callers use
// it to tell a storage inconsistency apart from an unknown record.
var ErrNotExist = errors.New("blob does not exist")

// Store persists document payloads under a caller-chosen name. Save must be
// durable before it returns; record writes happen only after a successful Save.
type Store interface {
	Save(ctx context.Context, name string, reader io.Reader, size int64) error
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Delete(ctx context.Context, name string) error
}

// New builds the store selected by configuration.
func New(cfg config.StorageConfig) (Store, error) {
	switch cfg.Backend {
	case "", "local":
		return NewLocalStore(cfg.Dir)
	case "minio":
		return NewMinIOStore(cfg)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
