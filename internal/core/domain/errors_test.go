package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestReject_MatchesKind(t *testing.T) {
	err := Reject(ErrValidation, "password must be at least 6 characters")

	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected errors.Is to match ErrValidation")
	}
	if errors.Is(err, ErrUploadRejected) {
		t.Fatalf("unexpected match with ErrUploadRejected")
	}
	if err.Error() != "password must be at least 6 characters" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestReject_SurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("register: %w", Reject(ErrUploadRejected, "file too large"))

	var de *DetailError
	if !errors.As(err, &de) {
		t.Fatalf("expected DetailError in chain")
	}
	if de.Msg != "file too large" || !errors.Is(err, ErrUploadRejected) {
		t.Fatalf("unexpected detail: %+v", de)
	}
}
