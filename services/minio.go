package services

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// MinioStore keeps artifacts in an S3-compatible bucket instead of the local
// disk. Selected when MINIO_HOST is configured; URLs are presigned GETs.
type MinioStore struct {
	client *minio.Client
	bucket string
	expiry time.Duration
}

func NewMinioStore(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*MinioStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &MinioStore{
		client: client,
		bucket: bucket,
		expiry: 7 * 24 * time.Hour,
	}, nil
}

func (s *MinioStore) Prepare(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return err
		}
		log.Info().Str("bucket", s.bucket).Msg("created bucket")
	}
	return nil
}

func (s *MinioStore) SaveStaged(ctx context.Context, name, mimeType string, original, thumbnail []byte) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.put(ctx, "staging/originals/"+name, original, mimeType)
	})
	g.Go(func() error {
		return s.put(ctx, "staging/thumbnails/"+name, thumbnail, mimeType)
	})
	return g.Wait()
}

func (s *MinioStore) put(ctx context.Context, key string, data []byte, mimeType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: mimeType,
	})
	return err
}

func (s *MinioStore) Promote(ctx context.Context, name string) error {
	for _, kind := range []string{"originals", "thumbnails"} {
		src := minio.CopySrcOptions{Bucket: s.bucket, Object: "staging/" + kind + "/" + name}
		dst := minio.CopyDestOptions{Bucket: s.bucket, Object: kind + "/" + name}
		if _, err := s.client.CopyObject(ctx, dst, src); err != nil {
			return err
		}
		if err := s.client.RemoveObject(ctx, s.bucket, src.Object, minio.RemoveObjectOptions{}); err != nil {
			log.Warn().Err(err).Str("object", src.Object).Msg("failed to clean up staged object")
		}
	}
	return nil
}

func (s *MinioStore) DiscardStaged(ctx context.Context, name string) {
	s.removeObjects(ctx, "staging/originals/"+name, "staging/thumbnails/"+name)
}

func (s *MinioStore) Remove(ctx context.Context, name string) {
	s.removeObjects(ctx, "originals/"+name, "thumbnails/"+name)
}

func (s *MinioStore) removeObjects(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
			log.Warn().Err(err).Str("object", key).Msg("failed to remove object")
		}
	}
}

func (s *MinioStore) ReadThumbnail(ctx context.Context, name string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, "thumbnails/"+name, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()
	return io.ReadAll(obj)
}

func (s *MinioStore) OriginalURL(name string) string {
	return s.presign("originals/" + name)
}

func (s *MinioStore) ThumbnailURL(name string) string {
	return s.presign("thumbnails/" + name)
}

func (s *MinioStore) presign(key string) string {
	u, err := s.client.PresignedGetObject(context.Background(), s.bucket, key, s.expiry, nil)
	if err != nil {
		log.Warn().Err(err).Str("object", key).Msg("failed to presign URL")
		return ""
	}
	return u.String()
}
