package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
)

// MinioStore keeps all blobs in a single bucket, relative paths become object
// keys unchanged.
type MinioStore struct {
	client *minio.Client
	bucket string
}

func NewMinioStore(client *minio.Client, bucket string) *MinioStore {
	return &MinioStore{client: client, bucket: bucket}
}

func (s *MinioStore) Put(ctx context.Context, relPath string, reader io.Reader, size int64, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.client.PutObject(ctx, s.bucket, relPath, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s: %w", relPath, err)
	}
	return nil
}

func (s *MinioStore) Get(ctx context.Context, relPath string) (io.ReadCloser, int64, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, relPath, minio.GetObjectOptions{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get object %s: %w", relPath, err)
	}

	// GetObject is lazy, Stat forces the first request and surfaces absence
	stat, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		if isNoSuchKey(err) {
			return nil, 0, ErrNotExist
		}
		return nil, 0, fmt.Errorf("failed to stat object %s: %w", relPath, err)
	}

	return obj, stat.Size, nil
}

func (s *MinioStore) Exists(ctx context.Context, relPath string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, relPath, minio.StatObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat object %s: %w", relPath, err)
	}
	return true, nil
}

func (s *MinioStore) Move(ctx context.Context, fromPath, toPath string) error {
	src := minio.CopySrcOptions{Bucket: s.bucket, Object: fromPath}
	dst := minio.CopyDestOptions{Bucket: s.bucket, Object: toPath}

	if _, err := s.client.CopyObject(ctx, dst, src); err != nil {
		if isNoSuchKey(err) {
			return ErrNotExist
		}
		return fmt.Errorf("failed to copy object %s to %s: %w", fromPath, toPath, err)
	}

	if err := s.client.RemoveObject(ctx, s.bucket, fromPath, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove source object %s after copy: %w", fromPath, err)
	}
	return nil
}

func (s *MinioStore) Remove(ctx context.Context, relPath string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, relPath, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object %s: %w", relPath, err)
	}
	return nil
}

func isNoSuchKey(err error) bool {
	var resp minio.ErrorResponse
	if errors.As(err, &resp) {
		return resp.Code == "NoSuchKey" || resp.StatusCode == 404
	}
	return false
}
