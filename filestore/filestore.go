package filestore

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by every driver when the object does not exist.
var ErrNotFound = errors.New("file not found")

type FileManager interface {
	// Get opens an object for reading. Caller closes the returned io.ReadCloser.
	Get(ctx context.Context, dir, fileName string) (io.ReadCloser, error)
	GetObjectSize(ctx context.Context, dir, fileName string) (int64, error)
	GetBucketName() string
}

const (
	DriverS3   = "s3"
	DriverGCS  = "gcs"
	DriverDisk = "disk"
)

// ObjectPath joins a directory and a file name with a single separator.
func ObjectPath(dir, fileName string) string {
	if dir == "" {
		return fileName
	}
	if dir[len(dir)-1] != '/' {
		dir = dir + "/"
	}
	return dir + fileName
}
