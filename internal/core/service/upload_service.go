package service

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/uploadgate/upload-gateway/internal/core/domain"
	"github.com/uploadgate/upload-gateway/internal/core/ports"
)

// DefaultMaxUploadBytes is the per-file ceiling (10 MiB).
const DefaultMaxUploadBytes int64 = 10 << 20

var allowedExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true,
	".pdf": true, ".doc": true, ".docx": true, ".txt": true,
}

// allowedMimeTypes maps every accepted declared type, aliases included, to the
// type recorded for the stored file.
var allowedMimeTypes = map[string]string{
	"image/jpeg":         "image/jpeg",
	"image/jpg":          "image/jpeg",
	"image/pjpeg":        "image/jpeg",
	"image/png":          "image/png",
	"image/x-png":        "image/png",
	"application/pdf":    "application/pdf",
	"application/x-pdf":  "application/pdf",
	"application/msword": "application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"text/plain": "text/plain",
}

const rejectTypeMsg = "only images, PDF and document files are allowed"

type UploadService struct {
	storage  ports.FileStorage
	maxBytes int64
	log      zerolog.Logger
	now      func() time.Time
	newID    func() string
}

func NewUploadService(storage ports.FileStorage, maxBytes int64, log zerolog.Logger) *UploadService {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &UploadService{
		storage:  storage,
		maxBytes: maxBytes,
		log:      log,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// MaxBytes reports the per-file ceiling.
func (s *UploadService) MaxBytes() int64 { return s.maxBytes }

// Upload checks the file against the size ceiling and the type allow-list,
// then writes it to storage under a generated name.
func (s *UploadService) Upload(ctx context.Context, in ports.UploadInput) (*domain.StoredFile, error) {
	if in.Content == nil || in.OriginalName == "" {
		return nil, domain.Reject(domain.ErrUploadRejected, "no file was uploaded")
	}
	if in.Size > s.maxBytes {
		return nil, domain.Reject(domain.ErrUploadRejected,
			fmt.Sprintf("file exceeds the maximum size of %d bytes", s.maxBytes))
	}

	ext := strings.ToLower(filepath.Ext(in.OriginalName))
	mimeType, ok := acceptedType(ext, in.ContentType)
	if !ok {
		return nil, domain.Reject(domain.ErrUploadRejected, rejectTypeMsg)
	}

	now := s.now().UTC()
	name := fmt.Sprintf("file-%d-%s%s", now.UnixMilli(), s.newID(), ext)

	if err := s.storage.Put(ctx, name, in.Content, in.Size, mimeType); err != nil {
		return nil, fmt.Errorf("upload: store %s: %w", name, err)
	}

	s.log.Info().
		Str("filename", name).
		Int64("size", in.Size).
		Int64("user_id", in.UploadedBy.UserID).
		Str("username", in.UploadedBy.Username).
		Msg("file uploaded")

	return &domain.StoredFile{
		Filename:     name,
		OriginalName: in.OriginalName,
		Size:         in.Size,
		MimeType:     mimeType,
		UploadedBy:   in.UploadedBy,
		StoredAt:     now,
	}, nil
}

// acceptedType returns the normalised mime type when the extension and the
// declared content type are each on their allow-list. The two are checked
// independently of each other.
func acceptedType(ext, contentType string) (string, bool) {
	if !allowedExtensions[ext] {
		return "", false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", false
	}
	normalised, ok := allowedMimeTypes[strings.ToLower(mediaType)]
	return normalised, ok
}
