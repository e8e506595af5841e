package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/google/uuid"
)

type s3Storage struct {
	uploader *s3manager.Uploader
	cfg      S3Configs
}

func NewS3Storage(cfg S3Configs) (*s3Storage, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:           aws.String(cfg.Region),
		Credentials:      credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
		Endpoint:         aws.String(cfg.Endpoint),
		S3ForcePathStyle: aws.Bool(true),
		DisableSSL:       aws.Bool(cfg.SSLDisabled),
	})
	if err != nil {
		return nil, err
	}

	return &s3Storage{
		uploader: s3manager.NewUploader(sess),
		cfg:      cfg,
	}, nil
}

func (s *s3Storage) Upload(ctx context.Context, object *UploadObject) (*UploadResponse, error) {
	bucket := object.Bucket
	if bucket == "" {
		bucket = s.cfg.Bucket
	}

	resp := objectLocation(s.cfg.PublicEndpoint, bucket, object.Prefix, uuid.NewString(), object.FileName)
	_, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(resp.FileName),
		Body:        bytes.NewReader(object.Data),
		ACL:         aws.String("public-read"),
		ContentType: aws.String(object.Mime),
	})
	if err != nil {
		return nil, fmt.Errorf("upload failed: %w, bucket %s, key %s", err, bucket, resp.FileName)
	}

	return resp, nil
}

func objectLocation(publicEndpoint, bucket, prefix, id, fileName string) *UploadResponse {
	key := fmt.Sprintf("%s-%s", id, fileName)
	if prefix != "" {
		key = fmt.Sprintf("%s/%s", strings.Trim(prefix, "/"), key)
	}

	return &UploadResponse{
		Url:      fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(publicEndpoint, "/"), bucket, key),
		FileName: key,
	}
}
