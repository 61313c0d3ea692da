package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"

	"medibook/submission"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// GCSConfig places reports in a Google Cloud Storage bucket.
type GCSConfig struct {
	Bucket          string
	CredentialsFile string
	Folder          string
}

// GCSRelay uploads reports to a Cloud Storage bucket.
type GCSRelay struct {
	client *storage.Client
	bucket string
	folder string
	logger *zap.Logger
}

// NewGCSRelay opens a storage client for cfg.Bucket.
func NewGCSRelay(ctx context.Context, cfg GCSConfig, logger *zap.Logger) (*GCSRelay, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("NewGCSRelay: bucket not set in configuration")
	}
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("NewGCSRelay: failed to create storage client: %w", err)
	}
	folder := cfg.Folder
	if folder == "" {
		folder = DefaultFolder
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GCSRelay{client: client, bucket: cfg.Bucket, folder: folder, logger: logger}, nil
}

// Upload decodes the data URI and writes it as an object named after name.
func (r *GCSRelay) Upload(ctx context.Context, encoded, name string) (string, error) {
	objectPath, err := r.write(ctx, encoded, name)
	if err != nil {
		r.logger.Error("GCS upload failed", zap.String("name", name), zap.Error(err))
		return "", &UploadError{Name: name, Err: err}
	}
	u := url.URL{Scheme: "https", Host: "storage.googleapis.com", Path: "/" + r.bucket + "/" + objectPath}
	return u.String(), nil
}

func (r *GCSRelay) write(ctx context.Context, encoded, name string) (string, error) {
	mediaType, data, err := submission.DecodeDataURI(encoded)
	if err != nil {
		return "", err
	}
	objectPath := path.Join(r.folder, name)
	w := r.client.Bucket(r.bucket).Object(objectPath).NewWriter(ctx)
	w.ContentType = mediaType
	if _, err := w.Write(data); err != nil {
		w.Close()
		return "", fmt.Errorf("failed to write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer: %w", err)
	}
	return objectPath, nil
}

// Close releases the storage client.
func (r *GCSRelay) Close() error {
	return r.client.Close()
}
