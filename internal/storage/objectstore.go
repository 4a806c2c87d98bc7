package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ObjectStore abstracts the bucket/path object storage the uploads
// land in.
type ObjectStore interface {
	Put(ctx context.Context, bucket, path string, data []byte) error
	Remove(ctx context.Context, bucket string, paths []string) error
}

// DiskStore is an ObjectStore on the local filesystem, one directory
// per bucket under a root.
type DiskStore struct {
	root string
}

// NewDiskStore creates a disk-backed object store rooted at dir.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create object store root %q: %w", dir, err)
	}
	return &DiskStore{root: dir}, nil
}

func (d *DiskStore) resolve(bucket, path string) (string, error) {
	full := filepath.Join(d.root, bucket, filepath.FromSlash(path))
	// Object paths come from stored metadata, but keep traversal out of
	// the root anyway.
	if !strings.HasPrefix(full, filepath.Clean(d.root)+string(os.PathSeparator)) {
		return "", fmt.Errorf("object path %q escapes store root", path)
	}
	return full, nil
}

func (d *DiskStore) Put(ctx context.Context, bucket, path string, data []byte) error {
	full, err := d.resolve(bucket, path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("create bucket dir: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fmt.Errorf("write object %s/%s: %w", bucket, path, err)
	}
	return nil
}

func (d *DiskStore) Remove(ctx context.Context, bucket string, paths []string) error {
	for _, p := range paths {
		full, err := d.resolve(bucket, p)
		if err != nil {
			return err
		}
		if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove object %s/%s: %w", bucket, p, err)
		}
	}
	return nil
}
