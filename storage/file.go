package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tm9657/jwk-vault/interfaces"
)

// FileKV implements the record store on the local file system. Each record
// is one file under the base directory; conditional creation relies on
// O_EXCL so concurrent creates for the same identifier cannot both win.
type FileKV struct {
	baseDir     string
	log         *slog.Logger
	locationURI string
}

// NewFileKV creates a file-backed record store rooted at baseDir.
func NewFileKV(baseDir string, log *slog.Logger) (*FileKV, error) {
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &FileKV{
		baseDir:     baseDir,
		log:         log,
		locationURI: fmt.Sprintf("file://%s", baseDir),
	}, nil
}

// Get retrieves the raw record for a key.
// Returns ErrRecordNotFound if the file doesn't exist.
func (b *FileKV) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(b.recordPath(key))
	if os.IsNotExist(err) {
		return nil, interfaces.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read record file: %w", err)
	}

	b.log.Debug("Fetched record from file",
		slog.String("key", key),
		slog.Int("size", len(data)))

	return data, nil
}

// PutIfAbsent stores value only if no record exists for key. The O_EXCL
// open makes the existence check and the create one atomic operation.
func (b *FileKV) PutIfAbsent(ctx context.Context, key string, value []byte) (bool, error) {
	f, err := os.OpenFile(b.recordPath(key), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if errors.Is(err, os.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to create record file: %w", err)
	}

	if _, err := f.Write(value); err != nil {
		f.Close()
		os.Remove(b.recordPath(key))
		return false, fmt.Errorf("failed to write record file: %w", err)
	}
	if err := f.Close(); err != nil {
		return false, fmt.Errorf("failed to close record file: %w", err)
	}

	b.log.Debug("Stored record in file",
		slog.String("key", key),
		slog.Int("size", len(value)))

	return true, nil
}

// Delete removes the record for a key. A missing file is not an error.
func (b *FileKV) Delete(ctx context.Context, key string) error {
	err := os.Remove(b.recordPath(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove record file: %w", err)
	}
	return nil
}

// Available checks if the base directory exists.
func (b *FileKV) Available(ctx context.Context) bool {
	_, err := os.Stat(b.baseDir)
	if err != nil {
		b.log.Debug("File backend unavailable", "err", err)
		return false
	}
	return true
}

// Name returns a unique identifier for this storage backend.
func (b *FileKV) Name() string {
	return fmt.Sprintf("file-kv-%s", filepath.Base(b.baseDir))
}

// LocationURI returns the URI that identifies this storage backend.
func (b *FileKV) LocationURI() string { return b.locationURI }

func (b *FileKV) recordPath(key string) string {
	// Keys are path-escaped record IDs, safe as file names.
	return filepath.Join(b.baseDir, key)
}

// FileDistribution implements the distribution store on the local file
// system, mainly for development against a locally served directory.
type FileDistribution struct {
	baseDir     string
	log         *slog.Logger
	locationURI string
}

// NewFileDistribution creates a file-backed distribution store rooted at baseDir.
func NewFileDistribution(baseDir string, log *slog.Logger) (*FileDistribution, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &FileDistribution{
		baseDir:     baseDir,
		log:         log,
		locationURI: fmt.Sprintf("file://%s", baseDir),
	}, nil
}

// Put stores data under path, creating parent directories as needed.
func (b *FileDistribution) Put(ctx context.Context, path string, data []byte, contentType string) error {
	target := filepath.Join(b.baseDir, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(target, data, 0644); err != nil {
		return fmt.Errorf("failed to write artifact file: %w", err)
	}

	b.log.Debug("Stored artifact in file",
		slog.String("path", target),
		slog.Int("size", len(data)))

	return nil
}

// Delete removes the object at path. A missing file is not an error.
func (b *FileDistribution) Delete(ctx context.Context, path string) error {
	err := os.Remove(filepath.Join(b.baseDir, filepath.FromSlash(path)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove artifact file: %w", err)
	}
	return nil
}

// Available checks if the base directory exists.
func (b *FileDistribution) Available(ctx context.Context) bool {
	_, err := os.Stat(b.baseDir)
	return err == nil
}

// Name returns a unique identifier for this storage backend.
func (b *FileDistribution) Name() string {
	return fmt.Sprintf("file-distribution-%s", filepath.Base(b.baseDir))
}

// LocationURI returns the URI that identifies this storage backend.
func (b *FileDistribution) LocationURI() string { return b.locationURI }
