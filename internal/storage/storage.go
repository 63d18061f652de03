// Package storage puts uploaded images (logos, product photos) into object
// storage and returns a URL the settings or product record can carry.
package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/google/uuid"

	"github.com/diewo77/shop-manager/internal/config"
)

// Store is the minimal surface handlers need: write a blob, get its URL.
type Store interface {
	Put(ctx context.Context, name string, contentType string, body io.Reader) (string, error)
}

// FromConfig picks S3 when a bucket is configured, local disk otherwise.
func FromConfig(cfg config.StorageConfig) (Store, error) {
	if cfg.S3Bucket != "" {
		return NewS3Store(cfg)
	}
	log.Printf("[storage] no S3 bucket configured, storing uploads under %s", cfg.LocalDir)
	return NewLocalStore(cfg.LocalDir, cfg.BaseURL)
}

// objectKey builds a collision-free key preserving the file extension.
func objectKey(prefix, name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	return path.Join(prefix, uuid.NewString()+ext)
}

// S3Store uploads through the s3manager uploader.
type S3Store struct {
	uploader *s3manager.Uploader
	bucket   string
	region   string
	prefix   string
}

func NewS3Store(cfg config.StorageConfig) (*S3Store, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(cfg.S3Region)})
	if err != nil {
		return nil, fmt.Errorf("s3 session: %w", err)
	}
	return &S3Store{
		uploader: s3manager.NewUploader(sess),
		bucket:   cfg.S3Bucket,
		region:   cfg.S3Region,
		prefix:   cfg.S3Prefix,
	}, nil
}

func (s *S3Store) Put(ctx context.Context, name, contentType string, body io.Reader) (string, error) {
	key := objectKey(s.prefix, name)
	_, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload: %w", err)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key), nil
}

// LocalStore writes uploads to a directory served by the HTTP server; the
// dev fallback when no bucket is configured.
type LocalStore struct {
	dir     string
	baseURL string
}

func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

func (s *LocalStore) Put(_ context.Context, name, _ string, body io.Reader) (string, error) {
	key := objectKey("", name)
	f, err := os.Create(filepath.Join(s.dir, key))
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, body); err != nil {
		return "", err
	}
	return s.baseURL + "/" + key, nil
}
