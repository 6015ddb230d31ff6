package object

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
)

// ObjectStore saves and retrieves artifacts under caller-chosen keys.
type ObjectStore interface {
	SaveWithKey(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	// Provider names the backend ("local" or "s3").
	Provider() string
}

// CleanKey normalizes a slash-separated storage key and rejects keys that
// escape the store root.
func CleanKey(storageKey string) (string, error) {
	trimmed := strings.TrimSpace(storageKey)
	if trimmed == "" {
		return "", fmt.Errorf("invalid storage key")
	}
	clean := path.Clean("/" + strings.ReplaceAll(trimmed, "\\", "/"))
	clean = strings.TrimPrefix(clean, "/")
	if clean == "" || clean == "." || strings.HasPrefix(trimmed, "..") || strings.Contains(trimmed, "/../") || strings.HasSuffix(trimmed, "/..") {
		return "", fmt.Errorf("invalid storage key")
	}
	return clean, nil
}
