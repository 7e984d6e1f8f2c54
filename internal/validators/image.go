// Package validators provides validation functions for uploaded chat-server assets.
package validators

import (
	"errors"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"

	// Codecs registered for image.DecodeConfig; uploads are limited to these formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// MaxIconDimension is the maximum allowed width and height for server icons,
// in pixels.
const MaxIconDimension = 70

// allowedImageExtensions are the accepted upload file extensions, lowercased.
var allowedImageExtensions = []string{".jpeg", ".png", ".gif", ".jpg"}

// ErrValidation is the sentinel all upload validation failures wrap.
var ErrValidation = errors.New("validation failed")

// ValidateImageExtension checks that the filename carries one of the accepted
// image extensions. The comparison is case-insensitive.
func ValidateImageExtension(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range allowedImageExtensions {
		if ext == allowed {
			return nil
		}
	}
	return fmt.Errorf("%w: extension %q not allowed for upload, available file extensions %v",
		ErrValidation, ext, allowedImageExtensions)
}

// ValidateIconImageSize decodes the image header from r and checks that
// neither dimension exceeds MaxIconDimension. A nil reader is a no-op, so an
// absent optional icon passes.
func ValidateIconImageSize(r io.Reader) error {
	if r == nil {
		return nil
	}

	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return fmt.Errorf("%w: unable to decode image: %v", ErrValidation, err)
	}

	if cfg.Width > MaxIconDimension || cfg.Height > MaxIconDimension {
		return fmt.Errorf("%w: the maximum allowed dimensions for the image are %dx%d, got %dx%d",
			ErrValidation, MaxIconDimension, MaxIconDimension, cfg.Width, cfg.Height)
	}
	return nil
}
