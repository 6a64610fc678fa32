package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// AssetService stores tenant-uploaded assets (currently logos) in object
// storage and hands back a long-lived presigned URL for the settings row.
type AssetService interface {
	UploadLogo(ctx context.Context, tenant string, reader io.Reader, size int64, contentType string) (string, error)
	EnsureBucketExists(ctx context.Context) error
}

type assetService struct {
	client *minio.Client
	bucket string
}

func NewAssetService(endpoint, accessKey, secretKey string, useSSL bool, bucket string) (AssetService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &assetService{client: client, bucket: bucket}, nil
}

func (s *assetService) EnsureBucketExists(ctx context.Context) error {
	found, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if !found {
		return s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
	}
	return nil
}

func (s *assetService) UploadLogo(ctx context.Context, tenant string, reader io.Reader, size int64, contentType string) (string, error) {
	objectName := fmt.Sprintf("%s/logo-%s", tenant, uuid.NewString())
	_, err := s.client.PutObject(ctx, s.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	url, err := s.client.PresignedGetObject(ctx, s.bucket, objectName, 7*24*time.Hour, nil)
	if err != nil {
		return "", err
	}
	return url.String(), nil
}
