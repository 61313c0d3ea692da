package utils

import (
	"context"
	"fmt"

	"medibook/config"
	"medibook/services/storage"

	"go.uber.org/zap"
)

// NewUploadRelay builds the relay selected by STORAGE_BACKEND. The returned
// close func releases backend clients and is never nil.
func NewUploadRelay(ctx context.Context, cfg config.Config, logger *zap.Logger) (storage.Relay, func() error, error) {
	noop := func() error { return nil }

	switch cfg.StorageBackend {
	case "", "cloudinary":
		relay, err := storage.NewCloudinaryRelay(storage.CloudinaryConfig{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Folder:    cfg.UploadFolder,
		}, logger)
		if err != nil {
			return nil, noop, fmt.Errorf("utils.NewUploadRelay: %w", err)
		}
		return relay, noop, nil
	case "gcs":
		relay, err := storage.NewGCSRelay(ctx, storage.GCSConfig{
			Bucket:          cfg.GCSBucket,
			CredentialsFile: cfg.GCSCredentialsFile,
			Folder:          cfg.UploadFolder,
		}, logger)
		if err != nil {
			return nil, noop, fmt.Errorf("utils.NewUploadRelay: %w", err)
		}
		return relay, relay.Close, nil
	default:
		return nil, noop, fmt.Errorf("utils.NewUploadRelay: unknown storage backend %q", cfg.StorageBackend)
	}
}
