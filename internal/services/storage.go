package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/chachabrian/rentmyride-backend/internal/config"
	"github.com/chachabrian/rentmyride-backend/internal/logger"
)

// MaxImageSize bounds vehicle photo uploads
const MaxImageSize = 8 << 20

var (
	ErrUnsupportedImage = errors.New("file is not a supported image")
	ErrImageTooLarge    = errors.New("image exceeds the size limit")
)

// PhotoStorage persists uploaded images and returns their public URL
type PhotoStorage interface {
	Upload(ctx context.Context, file *multipart.FileHeader, folder string) (string, error)
	Delete(ctx context.Context, url string) error
}

// Storage writes to S3 when a bucket is configured and to the local upload
// directory otherwise. Local files are served under /uploads.
type Storage struct {
	useS3    bool
	bucket   string
	region   string
	s3Client *s3.S3
	uploader *s3manager.Uploader

	uploadDir string
	baseURL   string
	log       *logger.Logger
}

func NewStorage(cfg *config.Config, log *logger.Logger) (*Storage, error) {
	log = log.With("component", "storage")

	if cfg.S3Enabled() {
		awsCfg := &aws.Config{Region: aws.String(cfg.AWSRegion)}
		if cfg.AWSAccessKeyID != "" && cfg.AWSSecretAccessKey != "" {
			awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, "")
		}
		sess, err := session.NewSession(awsCfg)
		if err != nil {
			return nil, fmt.Errorf("create AWS session: %w", err)
		}

		log.Info("S3 storage initialized", "bucket", cfg.AWSS3Bucket, "region", cfg.AWSRegion)
		return &Storage{
			useS3:    true,
			bucket:   cfg.AWSS3Bucket,
			region:   cfg.AWSRegion,
			s3Client: s3.New(sess),
			uploader: s3manager.NewUploader(sess),
			log:      log,
		}, nil
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	log.Warn("S3 not configured, using local file storage", "dir", cfg.UploadDir)
	return NewLocalStorage(cfg.UploadDir, cfg.BaseURL, log), nil
}

func NewLocalStorage(uploadDir, baseURL string, log *logger.Logger) *Storage {
	return &Storage{
		uploadDir: uploadDir,
		baseURL:   strings.TrimRight(baseURL, "/"),
		log:       log,
	}
}

func (s *Storage) IsUsingS3() bool {
	return s.useS3
}

// Upload stores an image under folder and returns its public URL
func (s *Storage) Upload(ctx context.Context, file *multipart.FileHeader, folder string) (string, error) {
	if file.Size > MaxImageSize {
		return "", ErrImageTooLarge
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	buffer := bytes.NewBuffer(nil)
	if _, err := io.Copy(buffer, io.LimitReader(src, MaxImageSize+1)); err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if buffer.Len() > MaxImageSize {
		return "", ErrImageTooLarge
	}

	contentType := http.DetectContentType(buffer.Bytes())
	if !strings.HasPrefix(contentType, "image/") {
		return "", ErrUnsupportedImage
	}

	fileName := fmt.Sprintf("%d%s", time.Now().UnixNano(), strings.ToLower(filepath.Ext(file.Filename)))
	if s.useS3 {
		return s.uploadToS3(ctx, buffer.Bytes(), contentType, folder+"/"+fileName)
	}
	return s.uploadLocally(buffer.Bytes(), folder, fileName)
}

func (s *Storage) uploadToS3(ctx context.Context, data []byte, contentType, key string) (string, error) {
	_, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload to S3: %w", err)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key), nil
}

func (s *Storage) uploadLocally(data []byte, folder, fileName string) (string, error) {
	folderPath := filepath.Join(s.uploadDir, folder)
	if err := os.MkdirAll(folderPath, 0o755); err != nil {
		return "", fmt.Errorf("create folder directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(folderPath, fileName), data, 0o644); err != nil {
		return "", fmt.Errorf("save file: %w", err)
	}
	return fmt.Sprintf("%s/uploads/%s/%s", s.baseURL, filepath.ToSlash(folder), fileName), nil
}

// Delete removes an image previously returned by Upload
func (s *Storage) Delete(ctx context.Context, url string) error {
	if s.useS3 {
		prefix := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", s.bucket, s.region)
		key := strings.TrimPrefix(url, prefix)
		_, err := s.s3Client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
		return err
	}

	rel := strings.TrimPrefix(url, s.baseURL+"/uploads/")
	if rel == url || strings.Contains(rel, "..") {
		return fmt.Errorf("not a local upload: %s", url)
	}
	err := os.Remove(filepath.Join(s.uploadDir, filepath.FromSlash(rel)))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
