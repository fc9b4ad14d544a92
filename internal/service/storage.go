package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/smartrecipe/backend/config"
	"github.com/smartrecipe/backend/internal/types"
)

// MaxUploadSize is the largest accepted upload in bytes.
const MaxUploadSize = 5 << 20

var allowedImageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// Storage persists an uploaded object and returns its public URL.
type Storage interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
}

var (
	_ Storage = (*S3Storage)(nil)
	_ Storage = (*LocalStorage)(nil)
)

// S3Storage writes objects to the configured bucket.
type S3Storage struct {
	s3Config *config.S3Config
}

func NewS3Storage(s3Config *config.S3Config) *S3Storage {
	return &S3Storage{s3Config: s3Config}
}

func (s *S3Storage) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.s3Config.BucketName),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return s.s3Config.ObjectURL(key), nil
}

// LocalStorage writes objects under a directory served at baseURL.
type LocalStorage struct {
	dir     string
	baseURL string
}

func NewLocalStorage(dir, baseURL string) *LocalStorage {
	return &LocalStorage{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *LocalStorage) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	dst := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}
	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	_, err = io.Copy(f, body)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return s.baseURL + "/" + key, nil
}

// UploadService validates image uploads and hands them to a Storage.
type UploadService struct {
	storage Storage
	now     func() time.Time
}

func NewUploadService(storage Storage) *UploadService {
	return &UploadService{storage: storage, now: time.Now}
}

// Upload stores an image for the caller and returns its URL.
func (s *UploadService) Upload(ctx context.Context, p *types.Principal, filename string, size int64, body io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	contentType, ok := allowedImageTypes[ext]
	if !ok {
		return "", FieldError("file", "unsupported file type; allowed: jpg, jpeg, png, gif, webp")
	}
	if size <= 0 {
		return "", FieldError("file", "the submitted file is empty")
	}
	if size > MaxUploadSize {
		return "", FieldError("file", "file size must not exceed 5MB")
	}

	key := path.Join("uploads", s.now().Format("2006/01"), p.UserID.String(), uuid.NewString()+ext)
	url, err := s.storage.Put(ctx, key, body, size, contentType)
	if err != nil {
		return "", err
	}
	return url, nil
}
