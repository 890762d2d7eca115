package storage

import (
	"context"
	"io"
)

// ObjectStorage abstracts where scan images and report PDFs live. Keys are
// relative paths under the media root, partitioned into the "scans/" and
// "reports/" prefixes.
type ObjectStorage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}

// ContentTypeForExt maps an upload file extension (without dot, lowercase) to
// the stored content type.
func ContentTypeForExt(ext string) string {
	switch ext {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "dcm", "dicom":
		return "application/dicom"
	case "pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}
