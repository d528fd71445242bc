package utils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/meinhoongagan/home-services/config"
	"github.com/meinhoongagan/home-services/logger"
	"github.com/meinhoongagan/home-services/services"
)

var ErrUploadsDisabled = errors.New("file uploads are not configured")

// CloudinaryUploader stores files in Cloudinary.
type CloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	preset string
}

// Upload stores file under folder and returns the secure URL. Images get a
// 200x200 thumbnail transformation, PDFs are stored as-is.
func (u *CloudinaryUploader) Upload(ctx context.Context, file io.Reader, folder, filename string) (string, error) {
	params := uploader.UploadParams{
		PublicID:     GeneratePublicID(filename),
		Folder:       folder,
		UploadPreset: u.preset,
	}
	if ext := strings.ToLower(filepath.Ext(filename)); ext != ".pdf" {
		params.Transformation = "c_thumb,w_200,h_200"
	}

	resp, err := u.cld.Upload.Upload(ctx, file, params)
	if err != nil {
		return "", err
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("cloudinary: %s", resp.Error.Message)
	}
	return resp.SecureURL, nil
}

// DisabledUploader rejects every upload.
type DisabledUploader struct{}

func (DisabledUploader) Upload(ctx context.Context, file io.Reader, folder, filename string) (string, error) {
	return "", ErrUploadsDisabled
}

func NewUploader(cfg config.Config, log logger.ILogger) services.Uploader {
	if cfg.CloudinaryCloudName == "" {
		log.Info("CLOUDINARY_CLOUD_NAME not set, uploads disabled")
		return DisabledUploader{}
	}
	cld, err := cloudinary.NewFromParams(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		log.Error("cloudinary init failed, uploads disabled", logger.Error(err))
		return DisabledUploader{}
	}
	return &CloudinaryUploader{cld: cld, preset: cfg.CloudinaryUploadPreset}
}
