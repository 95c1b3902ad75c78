package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/contacthub/backend/internal/config"
	"github.com/contacthub/backend/internal/logger"
	"github.com/contacthub/backend/internal/types"
)

// BucketService is the object-storage side of the photo lifecycle.
// There is no transactional link between the bucket and the database;
// callers own the ordering of uploads/deletes around their record
// mutations.
type BucketService interface {
	Upload(ctx context.Context, key string, file io.Reader) (types.PhotoInfo, error)
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

type bucketService struct {
	log        *logger.Logger
	client     *gcs.Client
	bucketName string
	cdnDomain  string
}

func NewBucketService(ctx context.Context, log *logger.Logger) (BucketService, error) {
	serviceLog := log.With("service", "BucketService")

	bucket := config.GetEnv("GCS_BUCKET_NAME", "", log)
	if bucket == "" {
		return nil, fmt.Errorf("missing env var GCS_BUCKET_NAME")
	}
	cdnDomain := config.GetEnv("CDN_DOMAIN", "", log)
	credsPath := config.GetEnv("GOOGLE_APPLICATION_CREDENTIALS_JSON", "", log)

	var client *gcs.Client
	var err error
	if credsPath != "" {
		client, err = gcs.NewClient(ctx, option.WithCredentialsFile(credsPath), option.WithScopes(gcs.ScopeReadWrite))
	} else {
		serviceLog.Warn("GOOGLE_APPLICATION_CREDENTIALS_JSON not set, relying on application default credentials")
		client, err = gcs.NewClient(ctx, option.WithScopes(gcs.ScopeReadWrite))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &bucketService{
		log:        serviceLog,
		client:     client,
		bucketName: bucket,
		cdnDomain:  cdnDomain,
	}, nil
}

func (bs *bucketService) Upload(ctx context.Context, key string, file io.Reader) (types.PhotoInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := bs.client.Bucket(bs.bucketName).Object(key).NewWriter(ctx)
	if _, err := io.Copy(w, file); err != nil {
		_ = w.Close()
		return types.PhotoInfo{}, fmt.Errorf("failed to write object %q: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return types.PhotoInfo{}, fmt.Errorf("failed to close writer for object %q: %w", key, err)
	}
	return types.PhotoInfo{URL: bs.PublicURL(key), Filename: key}, nil
}

func (bs *bucketService) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	o := bs.client.Bucket(bs.bucketName).Object(key)
	if err := o.Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete object %q: %w", key, err)
	}
	return nil
}

func (bs *bucketService) PublicURL(key string) string {
	if bs.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", bs.cdnDomain, key)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bs.bucketName, key)
}
