package ports

import (
	"context"
	"io"

	"github.com/uploadgate/upload-gateway/internal/core/domain"
)

// UploadInput is the DTO passed from the transport layer to UploadService.
type UploadInput struct {
	OriginalName string
	ContentType  string
	Size         int64
	Content      io.Reader
	UploadedBy   domain.Identity
}

type UploadService interface {
	Upload(ctx context.Context, in UploadInput) (*domain.StoredFile, error)
}

// FileStorage is the sink for accepted uploads.
type FileStorage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Ping(ctx context.Context) error
}
