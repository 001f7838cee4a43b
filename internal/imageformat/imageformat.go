// Package imageformat checks uploaded images by file extension and by magic bytes.
package imageformat

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/macrolens/foodcore/internal/domain"
)

// MaxFileSize is the largest accepted upload (10 MiB)
const MaxFileSize = 10 << 20

// SupportedFormats maps each accepted extension to its canonical MIME type
var SupportedFormats = map[string]string{
	"jpeg": "image/jpeg",
	"jpg":  "image/jpeg",
	"png":  "image/png",
	"webp": "image/webp",
	"gif":  "image/gif",
}

var (
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
	pngMagic  = []byte{0x89, 0x50, 0x4E, 0x47}
	gifMagic  = []byte{0x47, 0x49, 0x46, 0x38}
	riffMagic = []byte("RIFF")
	webpMagic = []byte("WEBP")
)

// IsValidImageFormat reports whether filename has a supported extension
func IsValidImageFormat(filename string) bool {
	_, ok := GetImageMimeType(filename)
	return ok
}

// GetImageMimeType returns the MIME type for filename's extension.
// ok is false for a missing or unsupported extension.
func GetImageMimeType(filename string) (string, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	mime, ok := SupportedFormats[ext]
	return mime, ok
}

// DetectMimeTypeFromBuffer identifies the image type from its leading bytes only
func DetectMimeTypeFromBuffer(buf []byte) (string, bool) {
	switch {
	case bytes.HasPrefix(buf, jpegMagic):
		return "image/jpeg", true
	case bytes.HasPrefix(buf, pngMagic):
		return "image/png", true
	case bytes.HasPrefix(buf, gifMagic):
		return "image/gif", true
	case len(buf) >= 12 && bytes.Equal(buf[0:4], riffMagic) && bytes.Equal(buf[8:12], webpMagic):
		return "image/webp", true
	}
	return "", false
}

// Validate runs both gates on an upload and returns the MIME type detected
// from its content. The extension and the content must agree.
func Validate(filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty file", domain.ErrInvalidImage)
	}
	if len(data) > MaxFileSize {
		return "", fmt.Errorf("%w: file exceeds %d bytes", domain.ErrInvalidImage, MaxFileSize)
	}

	declared, ok := GetImageMimeType(filename)
	if !ok {
		return "", fmt.Errorf("%w: unsupported extension %q", domain.ErrInvalidImage, filepath.Ext(filename))
	}
	detected, ok := DetectMimeTypeFromBuffer(data)
	if !ok {
		return "", fmt.Errorf("%w: unrecognized image content", domain.ErrInvalidImage)
	}
	if declared != detected {
		return "", fmt.Errorf("%w: extension says %s but content is %s", domain.ErrInvalidImage, declared, detected)
	}

	return detected, nil
}
