// Package storage stores generated files (account exports) in object
// storage. Each adapter is bound to one bucket at construction.
package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"
)

var (
	// ErrMissingSigner indicates signed URL support is not configured.
	ErrMissingSigner = errors.New("storage: signed url signer not configured")
	// ErrBucketRequired is returned when no bucket is configured.
	ErrBucketRequired = errors.New("storage: bucket is required")
	// ErrInvalidKey is returned for empty keys or keys starting with "/".
	ErrInvalidKey = errors.New("storage: invalid object key")
)

// Storage defines the object operations used by the application.
type Storage interface {
	io.Closer

	// Put stores r under key.
	Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (Object, error)
	// PresignGet returns a URL that downloads key until expiry elapses.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
	// List returns up to limit objects under prefix. A limit <= 0 lists all.
	List(ctx context.Context, prefix string, limit int) ([]Object, error)
	// Delete removes key.
	Delete(ctx context.Context, key string) error
}

// PutOptions configures uploads.
type PutOptions struct {
	// Size is the content length, -1 when unknown.
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// Object describes a stored object.
type Object struct {
	Bucket      string
	Key         string
	Size        int64
	ETag        string
	ContentType string
	UpdatedAt   time.Time
}

func checkKey(key string) error {
	if strings.TrimSpace(key) == "" || strings.HasPrefix(key, "/") {
		return ErrInvalidKey
	}
	return nil
}
