package media

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/PabloValdazoDEV/NotApp-Servidor/internal/infra/config"
)

const uploadFolder = "notapp"

// CloudinaryStore uploads images to Cloudinary and returns their delivery
// URLs. The service never serves image bytes itself.
type CloudinaryStore struct {
	client *cloudinary.Cloudinary
	logger *zap.Logger
}

// NewCloudinaryStore builds a media store from the configured credentials.
func NewCloudinaryStore(cfg config.MediaSettings, logger *zap.Logger) (*CloudinaryStore, error) {
	client, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("create cloudinary client: %w", err)
	}
	return &CloudinaryStore{client: client, logger: logger}, nil
}

// Upload stores the file under a random public ID and returns the secure
// delivery URL.
func (s *CloudinaryStore) Upload(ctx context.Context, file io.Reader, filename string) (string, error) {
	publicID := uuid.NewString()
	resp, err := s.client.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID: publicID,
		Folder:   uploadFolder,
	})
	if err != nil {
		return "", fmt.Errorf("upload to cloudinary: %w", err)
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("upload to cloudinary: %s", resp.Error.Message)
	}

	s.logger.Debug("image uploaded",
		zap.String("public_id", resp.PublicID),
		zap.String("filename", filename),
	)
	return resp.SecureURL, nil
}

// Destroy removes a previously uploaded asset. Accepts either the raw
// public ID or the delivery URL stored in the database.
func (s *CloudinaryStore) Destroy(ctx context.Context, publicID string) error {
	id := publicID
	if strings.Contains(publicID, "://") {
		id = publicIDFromURL(publicID)
	}
	if id == "" {
		return fmt.Errorf("destroy cloudinary asset: cannot derive public id from %q", publicID)
	}

	resp, err := s.client.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: id})
	if err != nil {
		return fmt.Errorf("destroy cloudinary asset: %w", err)
	}
	if resp.Result != "ok" && resp.Result != "not found" {
		return fmt.Errorf("destroy cloudinary asset: unexpected result %q", resp.Result)
	}
	return nil
}

// publicIDFromURL extracts "<folder>/<id>" from a Cloudinary delivery URL
// like https://res.cloudinary.com/<cloud>/image/upload/v123/<folder>/<id>.png.
func publicIDFromURL(rawURL string) string {
	_, rest, found := strings.Cut(rawURL, "/upload/")
	if !found {
		return ""
	}

	parts := strings.Split(rest, "/")
	if len(parts) > 0 && strings.HasPrefix(parts[0], "v") {
		if _, err := fmt.Sscanf(parts[0], "v%d", new(int)); err == nil {
			parts = parts[1:]
		}
	}
	if len(parts) == 0 {
		return ""
	}

	joined := strings.Join(parts, "/")
	ext := path.Ext(joined)
	return strings.TrimSuffix(joined, ext)
}
