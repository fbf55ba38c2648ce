package storage

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

// Minimal valid PNG header followed by padding, enough for content sniffing.
func pngBytes(size int) []byte {
	buf := make([]byte, size)
	copy(buf, []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A})
	return buf
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"poster.png", "poster.png", false},
		{"my poster (final).png", "my-poster-final-.png", false},
		{"../../etc/passwd", "passwd", false},
		{`..\..\windows\system32`, "system32", false},
		{"ωραίο.jpg", "jpg", false},
		{"...", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := sanitizeFilename(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("%q: expected error, got %q", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%q: got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestActivityImageKeyShape(t *testing.T) {
	key, err := ActivityImageKey("poster.png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(key, "activities/images/") {
		t.Errorf("unexpected key prefix: %s", key)
	}
	if !strings.HasSuffix(key, "_poster.png") {
		t.Errorf("unexpected key suffix: %s", key)
	}
}

func TestSpeakerImageKeyScoping(t *testing.T) {
	key, err := SpeakerImageKey("activity:abc123", "speaker-1", "face.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(key, "activities/speakers/images/activity-abc123/speaker-1/") {
		t.Errorf("unexpected key: %s", key)
	}
}

func TestValidateImageAcceptsPNG(t *testing.T) {
	data := pngBytes(1024)
	reader, contentType, err := ValidateImage(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if contentType != "image/png" {
		t.Errorf("expected image/png, got %s", contentType)
	}

	// The returned reader must replay the whole object, sniffed head included.
	out, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Errorf("reader did not replay the full object: got %d bytes, want %d", len(out), len(data))
	}
}

func TestValidateImageRejectsOversize(t *testing.T) {
	_, _, err := ValidateImage(bytes.NewReader(nil), MaxUploadBytes+1)
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}
}

func TestValidateImageRejectsEmpty(t *testing.T) {
	_, _, err := ValidateImage(bytes.NewReader(nil), 0)
	if !errors.Is(err, ErrEmpty) {
		t.Errorf("expected ErrEmpty, got %v", err)
	}
}

func TestValidateImageRejectsNonImage(t *testing.T) {
	data := []byte("#!/bin/sh\nrm -rf /\n")
	_, _, err := ValidateImage(bytes.NewReader(data), int64(len(data)))
	if !errors.Is(err, ErrBadType) {
		t.Errorf("expected ErrBadType, got %v", err)
	}
}

func TestLocalStoreRoundTrip(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "http://localhost:8080/media")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data := pngBytes(256)
	key, err := store.Put(t.Context(), "activities/images/1_poster.png", "image/png", bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("put failed: %v", err)
	}

	if url := store.URL(key); url != "http://localhost:8080/media/activities/images/1_poster.png" {
		t.Errorf("unexpected URL: %s", url)
	}

	if err := store.Delete(t.Context(), key); err != nil {
		t.Errorf("delete failed: %v", err)
	}
	// Deleting again must be a no-op.
	if err := store.Delete(t.Context(), key); err != nil {
		t.Errorf("second delete failed: %v", err)
	}
}
