package storage

import (
	"context"
	"io"
	"time"
)

// ObjectInfo describes one archived report object.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified *time.Time
}

// UploadOptions conveys upload destination metadata.
type UploadOptions struct {
	Bucket    string
	KeyPrefix string
}

// Service archives generated asset reports in remote object storage and
// hands out short-lived download links for them.
type Service interface {
	UploadReport(ctx context.Context, name string, body io.Reader, opts UploadOptions) (string, error)
	ListObjects(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error)
	GetObjectURL(ctx context.Context, bucket, key string, expires time.Duration) (string, error)
}
