package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"panovault/database"
	"panovault/models"
)

func setupUploader(t *testing.T) *Uploader {
	t.Helper()
	database.Connect(filepath.Join(t.TempDir(), "test.db"))
	return &Uploader{
		Store:       NewDiskStore(t.TempDir()),
		ThumbWidth:  512,
		ThumbHeight: 256,
	}
}

func TestUploadBatch(t *testing.T) {
	u := setupUploader(t)
	ctx := context.Background()

	items := []UploadItem{
		{Data: makeJPEG(t, 1024, 768), Name: "a.jpg", Size: 1000, MimeType: "image/jpeg"},
		{Data: makePNG(t, 800, 600), Name: "b.png", Size: 2000, MimeType: "image/png"},
	}

	created, failed := u.UploadBatch(ctx, "owner-1", items)
	require.Empty(t, failed)
	require.Len(t, created, 2)

	for i, img := range created {
		assert.Equal(t, "owner-1", img.UserID)
		assert.Len(t, img.Hash, 64)
		assert.Equal(t, []string{}, img.TagList())
		assert.False(t, img.Bookmarked)
		assert.Zero(t, img.ViewCount)

		root := u.Store.(*DiskStore).Root
		assert.FileExists(t, filepath.Join(root, "originals", img.FileName))
		assert.FileExists(t, filepath.Join(root, "thumbnails", img.FileName))

		require.NotNil(t, img.Width, "item %d", i)
		require.NotNil(t, img.Height, "item %d", i)
	}

	assert.Equal(t, 1024, *created[0].Width)
	assert.Equal(t, 768, *created[0].Height)
	assert.Equal(t, 800, *created[1].Width)
	assert.Equal(t, 600, *created[1].Height)

	// identical bytes re-uploaded get a fresh fingerprint
	again, failedAgain := u.UploadBatch(ctx, "owner-1", items[:1])
	require.Empty(t, failedAgain)
	require.Len(t, again, 1)
	assert.NotEqual(t, created[0].Hash, again[0].Hash)
}

func TestUploadBatchBadFileDoesNotAbortSiblings(t *testing.T) {
	u := setupUploader(t)

	created, failed := u.UploadBatch(context.Background(), "owner-1", []UploadItem{
		{Data: []byte("corrupt"), Name: "broken.jpg", Size: 7, MimeType: "image/jpeg"},
		{Data: makeJPEG(t, 400, 300), Name: "fine.jpg", Size: 100, MimeType: "image/jpeg"},
	})

	require.Len(t, failed, 1)
	assert.Equal(t, "broken.jpg", failed[0].FileName)
	require.Len(t, created, 1)
	assert.Contains(t, created[0].FileName, "fine.jpg")

	// the failed item left nothing behind in staging
	root := u.Store.(*DiskStore).Root
	for _, kind := range []string{"originals", "thumbnails"} {
		entries, err := os.ReadDir(filepath.Join(root, "staging", kind))
		require.NoError(t, err)
		assert.Empty(t, entries)
	}
}

type promoteFailStore struct {
	*DiskStore
}

func (s *promoteFailStore) Promote(ctx context.Context, name string) error {
	return errors.New("promote failed")
}

func TestUploadRollsBackRecordWhenPromoteFails(t *testing.T) {
	u := setupUploader(t)
	u.Store = &promoteFailStore{DiskStore: u.Store.(*DiskStore)}

	created, failed := u.UploadBatch(context.Background(), "owner-1", []UploadItem{
		{Data: makeJPEG(t, 400, 300), Name: "pano.jpg", Size: 100, MimeType: "image/jpeg"},
	})
	assert.Empty(t, created)
	require.Len(t, failed, 1)

	var count int64
	require.NoError(t, database.DB.Model(&models.Image{}).Count(&count).Error)
	assert.Zero(t, count, "record must not survive a failed promote")

	root := u.Store.(*promoteFailStore).Root
	for _, kind := range []string{"originals", "thumbnails"} {
		entries, err := os.ReadDir(filepath.Join(root, "staging", kind))
		require.NoError(t, err)
		assert.Empty(t, entries, "staged artifacts must be discarded")
	}
}
