package domain

import "time"

// StoredFile describes an accepted upload after it reached storage.
type StoredFile struct {
	Filename     string
	OriginalName string
	Size         int64
	MimeType     string
	UploadedBy   Identity
	StoredAt     time.Time
}
