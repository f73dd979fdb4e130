package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/apperrors"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/config"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/imaging"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/logger"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/storage"
)

// ImageUpload is one file received from a client.
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// IMediaService processes and stores uploaded images.
type IMediaService interface {
	UploadImages(ctx context.Context, ownerID primitive.ObjectID, files []ImageUpload) ([]string, error)
}

type mediaService struct {
	cfg     *config.Config
	storage storage.IMediaStorage
}

// NewMediaService creates a new MediaService.
func NewMediaService(cfg *config.Config, store storage.IMediaStorage) IMediaService {
	return &mediaService{cfg: cfg, storage: store}
}

// ObjectKey is where an upload for ownerID is stored.
func ObjectKey(ownerID primitive.ObjectID) string {
	return fmt.Sprintf("uploads/%s/%s.jpg", ownerID.Hex(), uuid.NewString())
}

func (s *mediaService) validate(files []ImageUpload) error {
	if len(files) == 0 {
		return apperrors.New(apperrors.ErrValidation, "No files uploaded")
	}
	if s.cfg.MaxImagesPerUpload > 0 && len(files) > s.cfg.MaxImagesPerUpload {
		return apperrors.Newf(apperrors.ErrValidation, "At most %d images can be uploaded at once", s.cfg.MaxImagesPerUpload)
	}

	maxBytes := int64(s.cfg.ImageMaxSizeMB) << 20
	for _, f := range files {
		if maxBytes > 0 && int64(len(f.Data)) > maxBytes {
			return apperrors.Newf(apperrors.ErrValidation, "%s exceeds the %dMB limit", f.Filename, s.cfg.ImageMaxSizeMB)
		}
		// Trust the bytes over the client-declared type.
		if !strings.HasPrefix(http.DetectContentType(f.Data), "image/") {
			return apperrors.Newf(apperrors.ErrValidation, "%s is not an image", f.Filename)
		}
	}
	return nil
}

// UploadImages validates every file first, then normalises and stores them in
// order. The first storage failure aborts the request.
func (s *mediaService) UploadImages(ctx context.Context, ownerID primitive.ObjectID, files []ImageUpload) ([]string, error) {
	if err := s.validate(files); err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(files))
	for _, f := range files {
		img, err := imaging.Normalize(f.Data, s.cfg.ImageMaxDimension)
		if err != nil {
			if errors.Is(err, imaging.ErrNotAnImage) {
				return nil, apperrors.Wrap(apperrors.ErrValidation, fmt.Sprintf("%s is not a supported image", f.Filename), err)
			}
			return nil, apperrors.Wrap(apperrors.ErrServer, "Error processing image", err)
		}

		url, err := s.storage.PutObject(ctx, ObjectKey(ownerID), img.ContentType, img.Data)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrDeliveryFailed, "Error uploading images", err)
		}
		urls = append(urls, url)
	}

	logger.FromContext(ctx).Info("images uploaded", zap.String("owner_id", ownerID.Hex()), zap.Int("count", len(urls)))
	return urls, nil
}
