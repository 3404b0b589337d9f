package port

import (
	"context"
	"io"
)

// MediaStore proxies image uploads to the external media host.
type MediaStore interface {
	// Upload stores the file and returns the public identifier used to
	// reference the asset later.
	Upload(ctx context.Context, file io.Reader, filename string) (string, error)
	Destroy(ctx context.Context, publicID string) error
}
