/*
Package storage wraps S3-compatible object storage.

The match archive writes finished matches as JSON objects through ObjectStore.
*/
package storage

import (
	"context"
	"io"
)

// ServiceConfig holds the configuration required to connect to the storage service.
type ServiceConfig struct {
	S3BucketName      string
	S3Endpoint        string
	S3Region          string
	S3AccessKeyID     string
	S3SecretAccessKey string
}

// ObjectStore is the subset of object storage the server needs.
type ObjectStore interface {
	// Put uploads body under key.
	Put(ctx context.Context, key, contentType string, body io.Reader) error

	// Exists reports whether an object is stored under key.
	Exists(ctx context.Context, key string) (bool, error)
}

// NewObjectStore is the factory function for ObjectStore.
// Only S3 compatible implementations are supported.
func NewObjectStore(ctx context.Context, cfg ServiceConfig) (ObjectStore, error) {
	return newS3Client(ctx, cfg)
}
