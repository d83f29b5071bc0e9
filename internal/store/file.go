package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/listenupapp/readinglog-server/internal/tenant"
)

const tempFilePrefix = ".readinglog-tmp-"

// FileBackend keeps one JSON file per tenant under a data directory.
// Files are opened per call; no descriptors are held between operations.
type FileBackend struct {
	root string
}

// NewFileBackend creates the data directory layout if needed.
func NewFileBackend(root string) (*FileBackend, error) {
	if err := os.MkdirAll(filepath.Join(root, "users"), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &FileBackend{root: root}, nil
}

// Name implements Backend.
func (b *FileBackend) Name() string { return "file" }

// Path returns the document path for a tenant.
func (b *FileBackend) Path(tenantID string) (string, error) {
	id := tenant.Normalize(tenantID)
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return "", fmt.Errorf("invalid tenant id %q", tenantID)
	}
	return filepath.Join(b.root, filepath.FromSlash(tenant.StoragePath(id))), nil
}

// Read implements Backend.
func (b *FileBackend) Read(ctx context.Context, tenantID string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := b.Path(tenantID)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoDocument
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// Write implements Backend.
func (b *FileBackend) Write(ctx context.Context, tenantID string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := b.Path(tenantID)
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data, 0o600)
}

// Delete implements Backend.
func (b *FileBackend) Delete(ctx context.Context, tenantID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := b.Path(tenantID)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

// Tenants implements Backend.
func (b *FileBackend) Tenants(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(filepath.Join(b.root, "users"))
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	var out []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, tempFilePrefix) || filepath.Ext(name) != ".json" {
			continue
		}
		out = append(out, strings.TrimSuffix(name, ".json"))
	}
	return out, nil
}

// Ping implements Backend.
func (b *FileBackend) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := os.Stat(filepath.Join(b.root, "users"))
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", info.Name())
	}
	return nil
}

// Close implements Backend.
func (b *FileBackend) Close() error { return nil }

// writeFileAtomic writes to a temp file in the target directory, syncs it and
// renames it over filename.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)

	tmp, err := os.CreateTemp(dir, tempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		return fmt.Errorf("rename temp file to %s: %w", filename, err)
	}
	return nil
}
