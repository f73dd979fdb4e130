package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/apperrors"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/metrics"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/services"
)

// multipartOverhead covers part headers and boundaries on top of file bytes.
const multipartOverhead = 1 << 20

var (
	errNoFiles        = apperrors.New(apperrors.ErrValidation, "No files uploaded")
	errSingleImage    = apperrors.New(apperrors.ErrValidation, "Exactly one image is required")
	errUploadTooLarge = apperrors.New(apperrors.ErrValidation, "Upload is too large")
)

// uploadLimit is the largest request body accepted for maxFiles files of at
// most maxBytes each. Zero means unlimited.
func uploadLimit(maxBytes int64, maxFiles int) int64 {
	if maxBytes <= 0 || maxFiles <= 0 {
		return 0
	}
	return int64(maxFiles)*maxBytes + multipartOverhead
}

// readUploads reads every file of a multipart field into memory. The whole
// body is capped before parsing so oversized requests never reach disk.
func readUploads(c *gin.Context, field string, maxBytes int64, maxFiles int) ([]services.ImageUpload, error) {
	if limit := uploadLimit(maxBytes, maxFiles); limit > 0 {
		if c.Request.ContentLength > limit {
			return nil, errUploadTooLarge
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	}

	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return nil, errUploadTooLarge
		case errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingBoundary):
			return nil, errNoFiles
		}
		return nil, apperrors.Wrap(apperrors.ErrValidation, "Invalid multipart form", err)
	}

	headers := form.File[field]
	if len(headers) == 0 {
		return nil, errNoFiles
	}

	uploads := make([]services.ImageUpload, 0, len(headers))
	for _, fh := range headers {
		if maxBytes > 0 && fh.Size > maxBytes {
			return nil, apperrors.Newf(apperrors.ErrValidation, "%s exceeds the %dMB limit", fh.Filename, maxBytes>>20)
		}
		f, err := fh.Open()
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrServer, "Error reading upload", err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrServer, "Error reading upload", fmt.Errorf("read %s: %w", fh.Filename, err))
		}
		uploads = append(uploads, services.ImageUpload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return uploads, nil
}

// RestUploadHandler handles listing image uploads.
type RestUploadHandler struct {
	mediaService services.IMediaService
	metrics      *metrics.Metrics
	maxFileBytes int64
	maxFiles     int
}

func NewRestUploadHandler(mediaService services.IMediaService, m *metrics.Metrics, maxFileBytes int64, maxFiles int) *RestUploadHandler {
	return &RestUploadHandler{mediaService: mediaService, metrics: m, maxFileBytes: maxFileBytes, maxFiles: maxFiles}
}

// UploadImages handles POST /api/upload/images (multipart field "images").
func (h *RestUploadHandler) UploadImages(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	files, err := readUploads(c, "images", h.maxFileBytes, h.maxFiles)
	if err != nil {
		respondError(c, err)
		return
	}

	urls, err := h.mediaService.UploadImages(c.Request.Context(), session.UserID, files)
	if err != nil {
		respondError(c, err)
		return
	}
	h.metrics.ImagesUploaded.Add(float64(len(urls)))

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Images uploaded successfully",
		"images":  urls,
	})
}
