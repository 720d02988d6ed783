package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BlobStore persists uploaded media. Paths are relative to the bucket root.
type BlobStore interface {
	Upload(ctx context.Context, path string, body io.Reader, contentType string) (string, error)
	PublicURL(path string) string
	Remove(ctx context.Context, paths ...string) error
}

// AllowedImageTypes maps accepted content types to the extension used in blob paths.
var AllowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

var ErrContentTypeNotAllowed = errors.New("content type not allowed")

// ValidateContentType reports whether contentType is one of the accepted image types.
func ValidateContentType(contentType string) error {
	if _, ok := AllowedImageTypes[normalizeContentType(contentType)]; !ok {
		return fmt.Errorf("%w: %s", ErrContentTypeNotAllowed, contentType)
	}
	return nil
}

// ValidateFileSize rejects files larger than maxSize bytes.
func ValidateFileSize(size int64, maxSize int64) error {
	if size > maxSize {
		return fmt.Errorf("file size exceeds maximum allowed size of %d bytes", maxSize)
	}
	return nil
}

// ObjectPath builds "{companyID}/{slot}-{unixmillis}-{nonce}{ext}". The nonce
// keeps gallery uploads landing in the same millisecond apart.
func ObjectPath(companyID uint, slot string, contentType string, now time.Time) string {
	ext := AllowedImageTypes[normalizeContentType(contentType)]
	nonce := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%d/%s-%d-%s%s", companyID, slot, now.UnixMilli(), nonce, ext)
}

func normalizeContentType(contentType string) string {
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
