// Package imaging normalises uploaded photos before they are stored.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"github.com/nfnt/resize"
)

// JPEGQuality is the encoder quality for all stored images.
const JPEGQuality = 85

// ErrNotAnImage is returned when the bytes do not decode as a supported image.
var ErrNotAnImage = errors.New("not a supported image")

// Result is a processed image ready for upload.
type Result struct {
	Data          []byte
	ContentType   string
	Width, Height int
	SourceFormat  string
}

// Normalize decodes data, shrinks it to fit within maxDim x maxDim keeping the
// aspect ratio, and re-encodes it as JPEG. Images already within bounds are
// only re-encoded. A maxDim of zero disables resizing.
func Normalize(data []byte, maxDim int) (*Result, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAnImage, err)
	}

	b := img.Bounds()
	if maxDim > 0 && (b.Dx() > maxDim || b.Dy() > maxDim) {
		img = resize.Thumbnail(uint(maxDim), uint(maxDim), img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &Result{
		Data:         buf.Bytes(),
		ContentType:  "image/jpeg",
		Width:        img.Bounds().Dx(),
		Height:       img.Bounds().Dy(),
		SourceFormat: format,
	}, nil
}
