package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
)

// CloudinaryConfig holds the credentials and placement of uploaded reports.
type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// mediaUploader is the part of the Cloudinary upload API the relay uses.
type mediaUploader interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
}

// CloudinaryRelay uploads reports to Cloudinary.
type CloudinaryRelay struct {
	api    mediaUploader
	folder string
	logger *zap.Logger
}

// NewCloudinaryRelay creates a relay from explicit credentials.
func NewCloudinaryRelay(cfg CloudinaryConfig, logger *zap.Logger) (*CloudinaryRelay, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, errors.New("NewCloudinaryRelay: cloudinary credentials not set in configuration")
	}
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("NewCloudinaryRelay: failed to initialize Cloudinary: %w", err)
	}
	return newCloudinaryRelay(&cld.Upload, cfg.Folder, logger), nil
}

func newCloudinaryRelay(api mediaUploader, folder string, logger *zap.Logger) *CloudinaryRelay {
	if folder == "" {
		folder = DefaultFolder
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CloudinaryRelay{api: api, folder: folder, logger: logger}
}

// Upload sends the data URI to Cloudinary, letting it infer the resource type,
// and returns the secure URL.
func (r *CloudinaryRelay) Upload(ctx context.Context, encoded, name string) (string, error) {
	result, err := r.api.Upload(ctx, encoded, uploader.UploadParams{
		Folder:       r.folder,
		PublicID:     name,
		ResourceType: "auto",
	})
	if err == nil && result != nil && result.Error.Message != "" {
		err = errors.New(result.Error.Message)
	}
	if err == nil && (result == nil || result.SecureURL == "") {
		err = errors.New("no secure URL returned")
	}
	if err != nil {
		r.logger.Error("Cloudinary upload failed", zap.String("name", name), zap.Error(err))
		return "", &UploadError{Name: name, Err: err}
	}
	return result.SecureURL, nil
}
