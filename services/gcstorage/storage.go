package gcstorage

import (
	"context"
	"io"

	"thordash/filestore"

	"cloud.google.com/go/storage"
)

var _ filestore.FileManager = (*GCSDriver)(nil)

type GCSDriver struct {
	client     *storage.Client
	BucketName string
}

func New(bucketName string) (*GCSDriver, error) {
	ctx := context.Background()
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	d := &GCSDriver{
		BucketName: bucketName,
		client:     client,
	}
	return d, nil
}

func (gcsd *GCSDriver) Get(ctx context.Context, dir, fileName string) (io.ReadCloser, error) {
	obj := gcsd.client.Bucket(gcsd.BucketName).Object(filestore.ObjectPath(dir, fileName))
	rc, err := obj.NewReader(ctx)
	if err != nil {
		return nil, translateError(err)
	}
	return rc, nil
}

func (gcsd *GCSDriver) GetObjectSize(ctx context.Context, dir, fileName string) (int64, error) {
	obj := gcsd.client.Bucket(gcsd.BucketName).Object(filestore.ObjectPath(dir, fileName))
	attrs, err := obj.Attrs(ctx)
	if err != nil {
		return 0, translateError(err)
	}
	return attrs.Size, nil
}

func (gcsd *GCSDriver) GetBucketName() string {
	return gcsd.BucketName
}

func translateError(err error) error {
	if err == storage.ErrObjectNotExist || err == storage.ErrBucketNotExist {
		return filestore.ErrNotFound
	}
	return err
}
