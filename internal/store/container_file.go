package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dkurmanov/docvault/internal/logger"
)

// containerFileStore is the default implementation of [ContainerFileStore].
// One sealed document is one file; there is no shared state between calls.
type containerFileStore struct {
	logger *logger.Logger
}

// NewContainerFileStore constructs a [ContainerFileStore].
func NewContainerFileStore(log *logger.Logger) ContainerFileStore {
	return &containerFileStore{logger: log}
}

// Save implements [ContainerFileStore]. The temp file is created in the
// target directory so the final rename stays on one filesystem and is atomic.
func (s *containerFileStore) Save(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create container directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp container file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp container file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync temp container file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp container file: %w", err)
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp container file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename container file into place: %w", err)
	}

	s.logger.Debug().Str("path", path).Int("size", len(data)).Msg("container written")
	return nil
}

// Load implements [ContainerFileStore].
func (s *containerFileStore) Load(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read container file: %w", err)
	}
	return data, nil
}

// Remove implements [ContainerFileStore].
func (s *containerFileStore) Remove(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("remove container file: %w", err)
	}
	return nil
}
