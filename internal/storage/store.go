// Package storage holds activity and speaker images in an object store.
// Production uses S3; development uses a local directory with the same key
// scheme. Keys are opaque to callers: the service stores whatever key Put
// returned and never derives keys itself.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"regexp"
	"strings"
	"time"
)

// Upload limits.
const (
	MaxUploadBytes = 5 << 20 // 5 MiB
)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Store errors.
var (
	ErrTooLarge    = errors.New("object exceeds maximum size")
	ErrBadType     = errors.New("unsupported content type")
	ErrEmpty       = errors.New("object is empty")
	ErrNotFound    = errors.New("object not found")
	ErrInvalidName = errors.New("invalid object name")
)

// Store is the object storage interface.
type Store interface {
	// Put stores the object under key and returns the key it used.
	Put(ctx context.Context, key string, contentType string, body io.Reader, size int64) (string, error)
	// Delete removes the object. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error
	// URL returns a fetchable URL for the key.
	URL(key string) string
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// sanitizeFilename reduces a client-supplied filename to a safe key
// segment. Path separators and anything outside the safe set collapse to
// single dashes.
func sanitizeFilename(name string) (string, error) {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeChars.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-.")
	if name == "" {
		return "", ErrInvalidName
	}
	return name, nil
}

// ActivityImageKey builds the storage key for an activity's main image.
func ActivityImageKey(filename string) (string, error) {
	safe, err := sanitizeFilename(filename)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("activities/images/%d_%s", time.Now().Unix(), safe), nil
}

// SpeakerImageKey builds the storage key for a speaker portrait. Keys are
// scoped by activity and speaker so deleting either can delete by prefix.
func SpeakerImageKey(activityID, speakerID, filename string) (string, error) {
	safe, err := sanitizeFilename(filename)
	if err != nil {
		return "", err
	}
	act := unsafeChars.ReplaceAllString(activityID, "-")
	sp := unsafeChars.ReplaceAllString(speakerID, "-")
	return fmt.Sprintf("activities/speakers/images/%s/%s/%d_%s", act, sp, time.Now().Unix(), safe), nil
}

// ValidateImage checks an upload against the size and type limits before
// anything touches the store. It sniffs the first bytes rather than
// trusting the client's declared type, and returns a reader that replays
// the sniffed prefix.
func ValidateImage(body io.Reader, size int64) (io.Reader, string, error) {
	if size <= 0 {
		return nil, "", ErrEmpty
	}
	if size > MaxUploadBytes {
		return nil, "", ErrTooLarge
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(body, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		return nil, "", ErrEmpty
	}
	head = head[:n]

	contentType := http.DetectContentType(head)
	if _, ok := allowedImageTypes[contentType]; !ok {
		return nil, "", fmt.Errorf("%w: %s", ErrBadType, contentType)
	}

	return io.MultiReader(strings.NewReader(string(head)), body), contentType, nil
}
