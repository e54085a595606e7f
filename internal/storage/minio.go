package storage

import (
	"context"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
)

// PhotoStore keeps dive-center photos in a MinIO bucket. Only the object
// name is persisted on the dive-center document.
type PhotoStore struct {
	client *minio.Client
	bucket string
}

// NewPhotoStore connects to MinIO and makes sure the bucket exists.
func NewPhotoStore(endpoint, accessKey, secretKey, bucket string) (*PhotoStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: false,
	})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		log.Warn().Err(err).Str("bucket", bucket).Msg("failed to check bucket existence")
	} else if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			log.Warn().Err(err).Str("bucket", bucket).Msg("failed to create bucket")
		} else {
			log.Info().Str("bucket", bucket).Msg("created bucket")
		}
	}

	return &PhotoStore{client: client, bucket: bucket}, nil
}

// Put uploads a photo under the given object name, replacing any previous
// object with the same name.
func (s *PhotoStore) Put(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, objectName, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

// Remove deletes a photo object. Missing objects are not an error.
func (s *PhotoStore) Remove(ctx context.Context, objectName string) error {
	return s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{})
}
