package services

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
)

// ImageStore conserve les images produit dans un bucket MinIO.
type ImageStore struct {
	client *minio.Client
	bucket string
}

func NewImageStore(client *minio.Client, bucket string) *ImageStore {
	return &ImageStore{client: client, bucket: bucket}
}

// Upload renvoie l'URL de l'objet dans le bucket.
func (s *ImageStore) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return objectURL(s.client.EndpointURL(), s.bucket, key), nil
}

// SignedURL génère une URL de lecture temporaire pour une URL renvoyée par Upload.
func (s *ImageStore) SignedURL(ctx context.Context, imageURL string, ttl time.Duration) (string, error) {
	key := objectKey(s.client.EndpointURL(), s.bucket, imageURL)
	if key == "" {
		return "", fmt.Errorf("image hors du bucket %s: %s", s.bucket, imageURL)
	}
	signed, err := s.client.PresignedGetObject(ctx, s.bucket, key, ttl, make(url.Values))
	if err != nil {
		return "", err
	}
	return signed.String(), nil
}

func objectURL(endpoint *url.URL, bucket, key string) string {
	return fmt.Sprintf("%s://%s/%s/%s", endpoint.Scheme, endpoint.Host, bucket, key)
}

func objectKey(endpoint *url.URL, bucket, imageURL string) string {
	prefix := objectURL(endpoint, bucket, "")
	if !strings.HasPrefix(imageURL, prefix) {
		return ""
	}
	return strings.TrimPrefix(imageURL, prefix)
}
