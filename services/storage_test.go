package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoredFileName(t *testing.T) {
	now := time.UnixMilli(1700000000000)

	tests := []struct {
		name     string
		original string
		want     string
	}{
		{"plain", "pano.jpg", "1700000000000_pano.jpg"},
		{"whitespace normalized", "my beach  trip.png", "1700000000000_my_beach_trip.png"},
		{"path stripped", "../../etc/passwd.jpg", "1700000000000_passwd.jpg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StoredFileName(tt.original, now))
		})
	}
}

func TestDiskStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewDiskStore(t.TempDir())

	require.NoError(t, store.Prepare(ctx))
	require.NoError(t, store.Prepare(ctx), "prepare must be idempotent")

	original := []byte("original bytes")
	thumb := []byte("thumbnail bytes")
	require.NoError(t, store.SaveStaged(ctx, "123_pano.jpg", "image/jpeg", original, thumb))

	// staged, not yet visible at the final locations
	_, err := os.Stat(filepath.Join(store.Root, "originals", "123_pano.jpg"))
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, store.Promote(ctx, "123_pano.jpg"))

	got, err := os.ReadFile(filepath.Join(store.Root, "originals", "123_pano.jpg"))
	require.NoError(t, err)
	assert.Equal(t, original, got)

	got, err = store.ReadThumbnail(ctx, "123_pano.jpg")
	require.NoError(t, err)
	assert.Equal(t, thumb, got)

	// nothing left behind in staging after promote
	_, err = os.Stat(filepath.Join(store.Root, "staging", "originals", "123_pano.jpg"))
	assert.True(t, os.IsNotExist(err))

	store.Remove(ctx, "123_pano.jpg")
	_, err = os.Stat(filepath.Join(store.Root, "originals", "123_pano.jpg"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(store.Root, "thumbnails", "123_pano.jpg"))
	assert.True(t, os.IsNotExist(err))

	// removing what is already gone must not blow up
	store.Remove(ctx, "123_pano.jpg")
	store.DiscardStaged(ctx, "never-staged.jpg")
}

func TestDiskStoreDiscardStaged(t *testing.T) {
	ctx := context.Background()
	store := NewDiskStore(t.TempDir())
	require.NoError(t, store.Prepare(ctx))

	require.NoError(t, store.SaveStaged(ctx, "9_x.png", "image/png", []byte("o"), []byte("t")))
	store.DiscardStaged(ctx, "9_x.png")

	_, err := os.Stat(filepath.Join(store.Root, "staging", "originals", "9_x.png"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(store.Root, "staging", "thumbnails", "9_x.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestDiskStoreURLs(t *testing.T) {
	store := NewDiskStore("/var/lib/panovault/uploads")
	assert.Equal(t, "/uploads/originals/1_a.jpg", store.OriginalURL("1_a.jpg"))
	assert.Equal(t, "/uploads/thumbnails/1_a.jpg", store.ThumbnailURL("1_a.jpg"))
}
