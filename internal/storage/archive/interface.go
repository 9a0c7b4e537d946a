// internal/storage/archive/interface.go
package archive

import (
	"context"
	"fmt"

	"github.com/newthinker/crossbt/internal/core"
)

// Storage defines the interface for run archive backends
type Storage interface {
	// Write stores data at the given path
	Write(ctx context.Context, path string, data []byte) error

	// Read retrieves data from the given path
	Read(ctx context.Context, path string) ([]byte, error)

	// List returns all paths matching the prefix
	List(ctx context.Context, prefix string) ([]string, error)

	// Exists checks if data exists at the given path
	Exists(ctx context.Context, path string) (bool, error)
}

// Backend types accepted by New
const (
	TypeLocalFS = "localfs"
	TypeS3      = "s3"
)

// Config selects and configures a backend
type Config struct {
	Type string
	Path string // For localfs
	S3   S3Config
}

// New creates the backend named by cfg.Type
func New(cfg Config) (Storage, error) {
	switch cfg.Type {
	case TypeLocalFS, "":
		if cfg.Path == "" {
			return nil, core.Errorf(core.ErrConfigMissing, "archive path required for localfs")
		}
		return NewLocalFS(cfg.Path)
	case TypeS3:
		if cfg.S3.Bucket == "" {
			return nil, core.Errorf(core.ErrConfigMissing, "archive bucket required for s3")
		}
		return NewS3(cfg.S3)
	default:
		return nil, core.WrapError(core.ErrConfigInvalid, fmt.Errorf("unknown archive type %q", cfg.Type))
	}
}
