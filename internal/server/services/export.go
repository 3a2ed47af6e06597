package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/mysterymessage/internal/common"
	"github.com/dmitrijs2005/mysterymessage/internal/server/models"
	"github.com/google/uuid"
)

const exportURLValidity = 15 * time.Minute

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// Export is the document written to object storage.
type Export struct {
	Username   string           `json:"username"`
	ExportedAt time.Time        `json:"exportedAt"`
	Messages   []models.Message `json:"messages"`
}

// ExportStorageKey builds exports/<userID>/<yyyy>/<mm>/<dd>/<uuid>.json.
func ExportStorageKey(userID string, d time.Time) string {
	return fmt.Sprintf("exports/%s/%04d/%02d/%02d/%s.json", userID, d.Year(), int(d.Month()), d.Day(), uuid.New())
}

func (s *MessageService) getS3Client(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.config.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// Export uploads the owner's messages (newest first) as JSON and returns a
// presigned download URL valid for 15 minutes.
func (s *MessageService) Export(ctx context.Context, identity *models.Identity) (string, error) {
	if s.config.S3Bucket == "" {
		return "", common.ErrNotConfigured
	}

	list, err := s.List(ctx, identity.ID)
	if err != nil {
		return "", err
	}

	now := s.now().UTC()
	body, err := json.Marshal(Export{Username: identity.Username, ExportedAt: now, Messages: list})
	if err != nil {
		return "", common.ErrorInternal
	}

	client, err := s.getS3Client(ctx)
	if err != nil {
		s.logger.Error(ctx, "s3 config failed", "error", err)
		return "", common.ErrorInternal
	}

	bucket := s.config.S3Bucket
	key := ExportStorageKey(identity.ID, now)

	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		s.logger.Error(ctx, "export upload failed", "error", err, "key", key)
		return "", common.ErrorInternal
	}

	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(exportURLValidity))
	if err != nil {
		s.logger.Error(ctx, "presign failed", "error", err, "key", key)
		return "", common.ErrorInternal
	}

	s.logger.Info(ctx, "messages exported", "user_id", identity.ID, "count", len(list))
	return req.URL, nil
}
