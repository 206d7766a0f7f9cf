package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// BlobStore is the collaborator that keeps uploaded image payloads and
// hands back a stable reference URL. Type and size validation happens
// before Put is ever called.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte) (string, error)
	Remove(ctx context.Context, key string) error
}

// FSBlobStore keeps blobs on the local filesystem under a base
// directory, serving them from a public base URL.
type FSBlobStore struct {
	baseDir string
	baseURL string
}

// NewFSBlobStore creates the store and its backing directory.
func NewFSBlobStore(baseDir, baseURL string) (*FSBlobStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create blob dir: %w", err)
	}
	return &FSBlobStore{
		baseDir: baseDir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Put writes the payload under key and returns its public URL.
func (s *FSBlobStore) Put(_ context.Context, key string, data []byte) (string, error) {
	if key == "" || strings.Contains(key, "..") || strings.ContainsRune(key, filepath.Separator) {
		return "", fmt.Errorf("invalid blob key %q", key)
	}
	path := filepath.Join(s.baseDir, key)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write blob %s: %w", key, err)
	}
	return s.baseURL + "/" + key, nil
}

// Remove deletes the payload for key; missing blobs are not an error.
func (s *FSBlobStore) Remove(_ context.Context, key string) error {
	path := filepath.Join(s.baseDir, key)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove blob %s: %w", key, err)
	}
	return nil
}
