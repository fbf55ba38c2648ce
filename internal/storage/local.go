package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore keeps objects under a directory on disk, mirroring the key
// scheme of the S3 store. Meant for development; URLs point at a static
// file route the server mounts over the same directory.
type LocalStore struct {
	root    string
	baseURL string
}

// NewLocalStore creates a directory-backed store rooted at root.
func NewLocalStore(root, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return &LocalStore{root: root, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

func (l *LocalStore) path(key string) (string, error) {
	full := filepath.Join(l.root, filepath.FromSlash(key))
	// Keys are built by this package, but never follow one outside the root.
	if !strings.HasPrefix(full, filepath.Clean(l.root)+string(os.PathSeparator)) {
		return "", ErrInvalidName
	}
	return full, nil
}

// Put stores the object under key.
func (l *LocalStore) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	full, err := l.path(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("failed to create object directory: %w", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("failed to create object file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, io.LimitReader(body, MaxUploadBytes+1)); err != nil {
		os.Remove(full)
		return "", fmt.Errorf("failed to write object: %w", err)
	}
	return key, nil
}

// Delete removes the object. A missing key is not an error.
func (l *LocalStore) Delete(ctx context.Context, key string) error {
	full, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// URL returns the static file URL for a key.
func (l *LocalStore) URL(key string) string {
	return l.baseURL + "/" + key
}
