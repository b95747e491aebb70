package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/uploadgate/upload-gateway/internal/core/domain"
	"github.com/uploadgate/upload-gateway/internal/core/ports"
)

type stubStorage struct {
	putFn func(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	keys  []string
}

func (s *stubStorage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	s.keys = append(s.keys, key)
	if s.putFn != nil {
		return s.putFn(ctx, key, r, size, contentType)
	}
	return nil
}

func (s *stubStorage) Ping(context.Context) error { return nil }

func newTestUploadService(storage ports.FileStorage) *UploadService {
	svc := NewUploadService(storage, 0, zerolog.Nop())
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }
	svc.newID = func() string { return "abc" }
	return svc
}

func uploadInput(name, contentType string, body []byte) ports.UploadInput {
	return ports.UploadInput{
		OriginalName: name,
		ContentType:  contentType,
		Size:         int64(len(body)),
		Content:      bytes.NewReader(body),
		UploadedBy:   domain.Identity{UserID: 1, Username: "alice"},
	}
}

func TestUploadService_Accepts(t *testing.T) {
	var got []byte
	storage := &stubStorage{putFn: func(_ context.Context, key string, r io.Reader, size int64, contentType string) error {
		if contentType != "application/pdf" {
			t.Fatalf("unexpected content type %q", contentType)
		}
		got, _ = io.ReadAll(r)
		return nil
	}}
	svc := newTestUploadService(storage)

	file, err := svc.Upload(context.Background(), uploadInput("Report.PDF", "application/pdf", []byte("%PDF-1.4")))
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if file.Filename != "file-1700000000000-abc.pdf" {
		t.Fatalf("unexpected filename %q", file.Filename)
	}
	if file.OriginalName != "Report.PDF" || file.Size != 8 || file.UploadedBy.Username != "alice" {
		t.Fatalf("unexpected metadata: %+v", file)
	}
	if string(got) != "%PDF-1.4" {
		t.Fatalf("storage received %q", got)
	}
}

func TestUploadService_AcceptsContentTypeParams(t *testing.T) {
	svc := newTestUploadService(&stubStorage{})

	file, err := svc.Upload(context.Background(), uploadInput("notes.txt", "text/plain; charset=utf-8", []byte("hi")))
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if file.MimeType != "text/plain" {
		t.Fatalf("unexpected mime type %q", file.MimeType)
	}
}

func TestUploadService_AcceptsAliasesAndMixedPairs(t *testing.T) {
	cases := []struct{ name, contentType, wantMime string }{
		{"photo.jpg", "image/jpg", "image/jpeg"},
		{"doc.pdf", "application/x-pdf", "application/pdf"},
		{"photo.png", "image/jpeg", "image/jpeg"},
	}
	for _, tc := range cases {
		storage := &stubStorage{}
		svc := newTestUploadService(storage)

		file, err := svc.Upload(context.Background(), uploadInput(tc.name, tc.contentType, []byte("x")))
		if err != nil {
			t.Fatalf("%s (%s): Upload returned error: %v", tc.name, tc.contentType, err)
		}
		if file.MimeType != tc.wantMime {
			t.Fatalf("%s (%s): mime type = %q, want %q", tc.name, tc.contentType, file.MimeType, tc.wantMime)
		}
		if len(storage.keys) != 1 {
			t.Fatalf("%s (%s): expected one stored file, got %v", tc.name, tc.contentType, storage.keys)
		}
	}
}

func TestUploadService_RejectsTypes(t *testing.T) {
	storage := &stubStorage{}
	svc := newTestUploadService(storage)

	cases := []struct{ name, contentType string }{
		{"script.exe", "application/octet-stream"},
		{"photo.png", "application/zip"},
		{"script.exe", "image/png"},
		{"archive.zip", "application/zip"},
		{"noext", "text/plain"},
		{"doc.pdf", ""},
	}
	for _, tc := range cases {
		_, err := svc.Upload(context.Background(), uploadInput(tc.name, tc.contentType, []byte("x")))
		if !errors.Is(err, domain.ErrUploadRejected) {
			t.Fatalf("%s (%s): expected ErrUploadRejected, got %v", tc.name, tc.contentType, err)
		}
	}
	if len(storage.keys) != 0 {
		t.Fatalf("rejected files must not reach storage, got %v", storage.keys)
	}
}

func TestUploadService_RejectsOversize(t *testing.T) {
	storage := &stubStorage{}
	svc := newTestUploadService(storage)

	in := uploadInput("big.png", "image/png", nil)
	in.Size = 15 << 20
	in.Content = strings.NewReader("")

	if _, err := svc.Upload(context.Background(), in); !errors.Is(err, domain.ErrUploadRejected) {
		t.Fatalf("expected ErrUploadRejected, got %v", err)
	}
	if len(storage.keys) != 0 {
		t.Fatalf("oversize file must not reach storage")
	}
}

func TestUploadService_MissingFile(t *testing.T) {
	svc := newTestUploadService(&stubStorage{})

	if _, err := svc.Upload(context.Background(), ports.UploadInput{}); !errors.Is(err, domain.ErrUploadRejected) {
		t.Fatalf("expected ErrUploadRejected, got %v", err)
	}
}

func TestUploadService_StorageError(t *testing.T) {
	storage := &stubStorage{putFn: func(context.Context, string, io.Reader, int64, string) error {
		return errors.New("bucket gone")
	}}
	svc := newTestUploadService(storage)

	_, err := svc.Upload(context.Background(), uploadInput("a.jpg", "image/jpeg", []byte("x")))
	if err == nil || errors.Is(err, domain.ErrUploadRejected) {
		t.Fatalf("expected storage error, got %v", err)
	}
}
