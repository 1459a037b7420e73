// Package imagestore persists uploaded profile images. Two backends exist:
// local disk (the default) and S3, selected by IMAGE_STORE.
package imagestore

import (
	"context"
	"io"
	"strings"
)

// Store writes an image under key and returns the public path recorded in the
// user row.
type Store interface {
	Save(ctx context.Context, key string, r io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
}

func contentType(filename string) string {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".jpg") || strings.HasSuffix(lower, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(lower, ".png"):
		return "image/png"
	case strings.HasSuffix(lower, ".gif"):
		return "image/gif"
	case strings.HasSuffix(lower, ".webp"):
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
