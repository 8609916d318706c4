package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// evidencePrefix is the S3 key prefix for payment evidence objects.
const evidencePrefix = "evidence"

// StorageService streams payment evidence to S3. The engine stores only the
// returned object key and never reads the content back.
type StorageService struct {
	uploader *manager.Uploader
	bucket   string
	logger   *zap.Logger
}

func NewStorageService(ctx context.Context, logger *zap.Logger) (*StorageService, error) {
	bucket := os.Getenv("EVIDENCE_BUCKET")
	if bucket == "" {
		return nil, fmt.Errorf("EVIDENCE_BUCKET not set")
	}
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-1"
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	accessKey := os.Getenv("AWS_ACCESS_KEY_ID")
	secretKey := os.Getenv("AWS_SECRET_ACCESS_KEY")
	if accessKey != "" && secretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")))
	} else {
		logger.Warn("S3 client using default credential chain")
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg)
	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = 5 * 1024 * 1024
	})
	return &StorageService{uploader: uploader, bucket: bucket, logger: logger}, nil
}

// UploadEvidence stores one evidence blob and returns its object key:
// evidence/{reservation_id}/{uuid}{ext}.
func (s *StorageService) UploadEvidence(ctx context.Context, reservationID int, filename, contentType string, body io.Reader) (string, error) {
	key := path.Join(evidencePrefix, fmt.Sprintf("%d", reservationID), uuid.NewString()+path.Ext(filename))
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload evidence to s3: %w", err)
	}
	s.logger.Info("evidence uploaded", zap.String("key", key), zap.Int("reservation_id", reservationID))
	return key, nil
}
