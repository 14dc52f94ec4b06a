package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStubObjectStorage(t *testing.T) {
	s := NewStubObjectStorage()
	require.NotNil(t, s)
	assert.Equal(t, "https://storage.example.com", s.BaseURL)
}

func TestStubObjectStorage_GenerateUploadURL(t *testing.T) {
	s := NewStubObjectStorage()
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		url, expiresAt, err := s.GenerateUploadURL(ctx, "ideas/u1/file.jpg", "image/jpeg", 15*time.Minute)
		require.NoError(t, err)
		assert.Contains(t, url, "https://storage.example.com/upload/ideas/u1/file.jpg")
		assert.True(t, expiresAt.After(time.Now()))
	})

	t.Run("empty storage key", func(t *testing.T) {
		_, _, err := s.GenerateUploadURL(ctx, "", "image/jpeg", 15*time.Minute)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage key is required")
	})
}

func TestStubObjectStorage_PublicURL(t *testing.T) {
	s := NewStubObjectStorage()
	s.BaseURL = "http://localhost:8080/media/"

	assert.Equal(t, "http://localhost:8080/media/profiles/u1/p.png", s.PublicURL("profiles/u1/p.png"))
	assert.Empty(t, s.PublicURL(""))
}

func TestStubObjectStorage_ObjectExists(t *testing.T) {
	s := NewStubObjectStorage()
	ctx := context.Background()

	exists, err := s.ObjectExists(ctx, "ideas/u1/a.png")
	require.NoError(t, err)
	assert.False(t, exists)

	_, _, err = s.GenerateUploadURL(ctx, "ideas/u1/a.png", "image/png", time.Minute)
	require.NoError(t, err)

	exists, err = s.ObjectExists(ctx, "ideas/u1/a.png")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = s.ObjectExists(ctx, "")
	assert.Error(t, err)
}
