package s3

import (
	"context"
	"io"

	"thordash/filestore"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	log "github.com/sirupsen/logrus"
)

var _ filestore.FileManager = (*S3Driver)(nil)

type S3Driver struct {
	s3         s3iface.S3API
	BucketName string
	Region     string
}

func New(bucketName, region string) (*S3Driver, error) {
	sess, err := session.NewSession(aws.NewConfig().WithRegion(region))
	if err != nil {
		return nil, err
	}
	return NewWithClient(s3.New(sess), bucketName, region), nil
}

func NewWithClient(client s3iface.S3API, bucketName, region string) *S3Driver {
	return &S3Driver{s3: client, BucketName: bucketName, Region: region}
}

func (sd *S3Driver) Get(ctx context.Context, dir, fileName string) (io.ReadCloser, error) {
	input := s3.GetObjectInput{
		Bucket: aws.String(sd.BucketName),
		Key:    aws.String(filestore.ObjectPath(dir, fileName)),
	}
	op, err := sd.s3.GetObjectWithContext(ctx, &input)
	if err != nil {
		return nil, translateError(err)
	}
	return op.Body, nil
}

func (sd *S3Driver) GetObjectSize(ctx context.Context, dir, fileName string) (int64, error) {
	input := s3.HeadObjectInput{
		Bucket: aws.String(sd.BucketName),
		Key:    aws.String(filestore.ObjectPath(dir, fileName)),
	}
	op, err := sd.s3.HeadObjectWithContext(ctx, &input)
	if err != nil {
		return 0, translateError(err)
	}
	return aws.Int64Value(op.ContentLength), nil
}

func (sd *S3Driver) GetBucketName() string {
	return sd.BucketName
}

func translateError(err error) error {
	if aerr, ok := err.(awserr.Error); ok {
		switch aerr.Code() {
		case s3.ErrCodeNoSuchKey, s3.ErrCodeNoSuchBucket, "NotFound":
			return filestore.ErrNotFound
		}
		log.WithField("code", aerr.Code()).WithError(err).Error("S3 request failed.")
	}
	return err
}
