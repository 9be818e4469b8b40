package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"panovault/models"
	"panovault/repository"
)

// Uploader runs the upload pipeline for each file in a batch: stored-name
// derivation, dimension probe, fingerprint, staged artifact write, record
// creation, artifact promotion. Files are processed one after another; a
// failed file never aborts its siblings.
type Uploader struct {
	Store       ArtifactStore
	ThumbWidth  int
	ThumbHeight int
}

type UploadItem struct {
	Data     []byte
	Name     string
	Size     int64
	MimeType string
}

type FailedUpload struct {
	FileName string `json:"file_name"`
	Error    string `json:"error"`
}

func (u *Uploader) UploadBatch(ctx context.Context, ownerID string, items []UploadItem) ([]models.Image, []FailedUpload) {
	if err := u.Store.Prepare(ctx); err != nil {
		log.Error().Err(err).Msg("artifact store unavailable")
		failed := make([]FailedUpload, 0, len(items))
		for _, item := range items {
			failed = append(failed, FailedUpload{FileName: item.Name, Error: "storage unavailable"})
		}
		return nil, failed
	}

	var created []models.Image
	var failed []FailedUpload

	for _, item := range items {
		img, err := u.uploadOne(ctx, ownerID, item)
		if err != nil {
			log.Warn().Err(err).Str("file", item.Name).Msg("upload item failed")
			failed = append(failed, FailedUpload{FileName: item.Name, Error: err.Error()})
			continue
		}
		created = append(created, *img)
	}

	return created, failed
}

func (u *Uploader) uploadOne(ctx context.Context, ownerID string, item UploadItem) (*models.Image, error) {
	now := time.Now()
	name := StoredFileName(item.Name, now)

	thumb, err := Thumbnail(item.Data, name, u.ThumbWidth, u.ThumbHeight)
	if err != nil {
		return nil, err
	}
	width, height := Dimensions(item.Data)
	hash := Fingerprint(item.Data, now)

	if err := u.Store.SaveStaged(ctx, name, item.MimeType, item.Data, thumb); err != nil {
		u.Store.DiscardStaged(ctx, name)
		return nil, err
	}

	img := &models.Image{
		ID:            uuid.New().String(),
		UserID:        ownerID,
		FileName:      name,
		OriginalPath:  u.Store.OriginalURL(name),
		ThumbnailPath: u.Store.ThumbnailURL(name),
		Size:          item.Size,
		MimeType:      item.MimeType,
		Width:         width,
		Height:        height,
		Hash:          hash,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	// Record first, then promote: a failed create leaves nothing outside
	// the staging area to leak.
	if err := repository.CreateImage(img); err != nil {
		u.Store.DiscardStaged(ctx, name)
		return nil, err
	}
	if err := u.Store.Promote(ctx, name); err != nil {
		if derr := repository.DeleteImage(img); derr != nil {
			log.Error().Err(derr).Str("image", img.ID).Msg("failed to roll back record after promote failure")
		}
		u.Store.DiscardStaged(ctx, name)
		return nil, err
	}

	return img, nil
}
