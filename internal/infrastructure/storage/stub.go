package storage

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/ideation/backend/internal/application/media"
)

// StubObjectStorage stands in for S3 when storage is disabled. Upload URLs
// point at BaseURL and every key handed out is reported as existing.
type StubObjectStorage struct {
	// BaseURL defaults to "https://storage.example.com"
	BaseURL string

	mu     sync.RWMutex
	issued map[string]struct{}
}

// NewStubObjectStorage creates a new StubObjectStorage
func NewStubObjectStorage() *StubObjectStorage {
	return &StubObjectStorage{
		BaseURL: "https://storage.example.com",
		issued:  make(map[string]struct{}),
	}
}

var _ media.ObjectStorage = (*StubObjectStorage)(nil)

// GenerateUploadURL returns a fake upload URL and remembers the key
func (s *StubObjectStorage) GenerateUploadURL(
	ctx context.Context,
	storageKey, contentType string,
	expiresIn time.Duration,
) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}

	s.mu.Lock()
	s.issued[storageKey] = struct{}{}
	s.mu.Unlock()

	expiresAt := time.Now().Add(expiresIn)
	return s.base() + "/upload/" + storageKey + "?expires=" + expiresAt.Format(time.RFC3339), expiresAt, nil
}

// PublicURL returns BaseURL joined with the key
func (s *StubObjectStorage) PublicURL(key string) string {
	key = strings.TrimLeft(key, "/")
	if key == "" {
		return ""
	}
	return s.base() + "/" + key
}

// ObjectExists reports whether an upload URL was issued for the key
func (s *StubObjectStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, errors.New("storage key is required")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.issued[storageKey]
	return ok, nil
}

func (s *StubObjectStorage) base() string {
	return strings.TrimRight(s.BaseURL, "/")
}
