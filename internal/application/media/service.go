// Package media hands out presigned upload URLs for idea illustrations and
// profile pictures, and maps stored objects to their public URLs.
package media

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ideation/backend/internal/domain/shared"
)

// ObjectStorage is implemented by the infrastructure storage backends
type ObjectStorage interface {
	// GenerateUploadURL returns a presigned PUT URL and its expiry
	GenerateUploadURL(ctx context.Context, key, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// PublicURL returns the URL the stored object is served from
	PublicURL(key string) string

	ObjectExists(ctx context.Context, key string) (bool, error)
}

// Kind selects the key prefix of an upload
type Kind string

const (
	KindIdeaImage      Kind = "ideas"
	KindProfilePicture Kind = "profiles"
)

// allowed image content types and their file extensions
var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// UploadTicket is returned to the client: it PUTs the file to UploadURL and
// then stores PublicURL on the idea or profile.
type UploadTicket struct {
	Key         string    `json:"key"`
	UploadURL   string    `json:"upload_url"`
	PublicURL   string    `json:"public_url"`
	ContentType string    `json:"content_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Service issues upload tickets
type Service struct {
	storage   ObjectStorage
	expiresIn time.Duration
}

// NewService creates a media service. A non-positive expiresIn uses the
// storage backend's default.
func NewService(storage ObjectStorage, expiresIn time.Duration) *Service {
	return &Service{storage: storage, expiresIn: expiresIn}
}

// RequestUpload issues a ticket for a new object owned by ownerID
func (s *Service) RequestUpload(ctx context.Context, kind Kind, ownerID uuid.UUID, contentType string) (*UploadTicket, error) {
	if kind != KindIdeaImage && kind != KindProfilePicture {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown upload kind: "+string(kind))
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, shared.NewDomainError("INVALID_CONTENT_TYPE", "Only JPEG, PNG, GIF and WebP images can be uploaded")
	}

	key := ObjectKey(kind, ownerID, uuid.New(), ext)
	uploadURL, expiresAt, err := s.storage.GenerateUploadURL(ctx, key, contentType, s.expiresIn)
	if err != nil {
		return nil, shared.WrapDomainError("STORAGE_ERROR", "Failed to create upload URL", err)
	}
	return &UploadTicket{
		Key:         key,
		UploadURL:   uploadURL,
		PublicURL:   s.storage.PublicURL(key),
		ContentType: contentType,
		ExpiresAt:   expiresAt,
	}, nil
}

// Exists reports whether the object behind key has been uploaded
func (s *Service) Exists(ctx context.Context, key string) (bool, error) {
	return s.storage.ObjectExists(ctx, key)
}

// PublicURL returns the URL the object behind key is served from
func (s *Service) PublicURL(key string) string {
	return s.storage.PublicURL(key)
}

// OwnedBy reports whether key was issued for an upload of kind by ownerID
func OwnedBy(key string, kind Kind, ownerID uuid.UUID) bool {
	return strings.HasPrefix(key, fmt.Sprintf("%s/%s/", kind, ownerID))
}

// ObjectKey builds "{kind}/{owner}/{object}{ext}"
func ObjectKey(kind Kind, ownerID, objectID uuid.UUID, ext string) string {
	return fmt.Sprintf("%s/%s/%s%s", kind, ownerID, objectID, ext)
}
