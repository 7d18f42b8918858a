package disk

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"thordash/filestore"

	log "github.com/sirupsen/logrus"
)

var _ filestore.FileManager = (*DiskDriver)(nil)

type DiskDriver struct {
	// Analogous to bucket name.
	baseDir string
}

func New(baseDir string) *DiskDriver {
	return &DiskDriver{baseDir: baseDir}
}

func (dd *DiskDriver) path(dir, fileName string) string {
	return filepath.Join(dd.baseDir, dir, fileName)
}

// Get opens a file in read only mode.
func (dd *DiskDriver) Get(_ context.Context, dir, fileName string) (io.ReadCloser, error) {
	path := dd.path(dir, fileName)
	log.WithFields(log.Fields{"path": path}).Debug("DiskDriver opening file")

	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, filestore.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return file, nil
}

func (dd *DiskDriver) GetObjectSize(_ context.Context, dir, fileName string) (int64, error) {
	info, err := os.Stat(dd.path(dir, fileName))
	if os.IsNotExist(err) {
		return 0, filestore.ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (dd *DiskDriver) GetBucketName() string {
	return dd.baseDir
}
