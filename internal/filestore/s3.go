package filestore

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	s3config "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"classwork_service/internal/domain"
	"classwork_service/internal/errdefs"
)

type S3Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
}

type S3Store struct {
	client *s3.Client
	bucket *string
}

var allowedExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
	".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
	".ppt": true, ".pptx": true, ".txt": true, ".csv": true,
	".mp3": true, ".mp4": true, ".wav": true, ".zip": true, ".rar": true,
	".go": true, ".py": true, ".java": true, ".c": true, ".cpp": true,
}

func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	s3Cfg, err := s3config.LoadDefaultConfig(ctx,
		s3config.WithRegion(cfg.Region),
		s3config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID,
				cfg.SecretAccessKey,
				"",
			),
		),
	)
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(s3Cfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Store{client: client, bucket: aws.String(cfg.Bucket)}, nil
}

func (s *S3Store) Store(ctx context.Context, upload Upload) (domain.FileRecord, error) {
	extension := strings.ToLower(path.Ext(upload.Name))
	if extension == "" {
		return domain.FileRecord{}, fmt.Errorf("missing file extension: %w", errdefs.ErrValidation)
	}
	if !allowedExtensions[extension] {
		return domain.FileRecord{}, fmt.Errorf("file extension %s not allowed: %w", extension, errdefs.ErrValidation)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return domain.FileRecord{}, err
	}
	key := id.String() + extension

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      s.bucket,
		Key:         aws.String(key),
		Body:        upload.Body,
		ContentType: aws.String(upload.ContentType),
	})
	if err != nil {
		return domain.FileRecord{}, fmt.Errorf("failed to store object: %w", err)
	}

	return domain.FileRecord{
		Path:         key,
		OriginalName: upload.Name,
		MimeType:     upload.ContentType,
		Size:         upload.Size,
	}, nil
}

func (s *S3Store) Delete(ctx context.Context, objectPath string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: s.bucket,
		Key:    aws.String(objectPath),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}
