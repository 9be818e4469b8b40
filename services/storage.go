package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// ArtifactStore persists original and thumbnail bytes for an image. Writes go
// to a staging area first and are promoted once the database record exists,
// so a failed record creation never leaves orphaned artifacts behind.
type ArtifactStore interface {
	// Prepare bootstraps directories or buckets; safe to call repeatedly.
	Prepare(ctx context.Context) error
	// SaveStaged writes the original and thumbnail to the staging area. The
	// two writes have no ordering dependency and run concurrently.
	SaveStaged(ctx context.Context, name, mimeType string, original, thumbnail []byte) error
	// Promote moves both staged artifacts to their final locations.
	Promote(ctx context.Context, name string) error
	// DiscardStaged removes staged artifacts, best-effort.
	DiscardStaged(ctx context.Context, name string)
	// Remove deletes committed artifacts, best-effort; missing files are fine.
	Remove(ctx context.Context, name string)
	ReadThumbnail(ctx context.Context, name string) ([]byte, error)
	OriginalURL(name string) string
	ThumbnailURL(name string) string
}

// StoredFileName makes an uploaded name unique with a timestamp prefix and
// normalizes whitespace to underscores.
func StoredFileName(original string, now time.Time) string {
	name := filepath.Base(original)
	name = strings.Join(strings.Fields(name), "_")
	return fmt.Sprintf("%d_%s", now.UnixMilli(), name)
}

// DiskStore keeps artifacts on the local filesystem under Root, served back
// through the static /uploads route.
type DiskStore struct {
	Root string
}

func NewDiskStore(root string) *DiskStore {
	return &DiskStore{Root: root}
}

func (s *DiskStore) Prepare(ctx context.Context) error {
	for _, dir := range []string{
		filepath.Join(s.Root, "originals"),
		filepath.Join(s.Root, "thumbnails"),
		filepath.Join(s.Root, "staging", "originals"),
		filepath.Join(s.Root, "staging", "thumbnails"),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}

func (s *DiskStore) SaveStaged(ctx context.Context, name, mimeType string, original, thumbnail []byte) error {
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		return os.WriteFile(filepath.Join(s.Root, "staging", "originals", name), original, 0o644)
	})
	g.Go(func() error {
		return os.WriteFile(filepath.Join(s.Root, "staging", "thumbnails", name), thumbnail, 0o644)
	})
	return g.Wait()
}

func (s *DiskStore) Promote(ctx context.Context, name string) error {
	for _, kind := range []string{"originals", "thumbnails"} {
		src := filepath.Join(s.Root, "staging", kind, name)
		dst := filepath.Join(s.Root, kind, name)
		if err := os.Rename(src, dst); err != nil {
			return err
		}
	}
	return nil
}

func (s *DiskStore) DiscardStaged(ctx context.Context, name string) {
	for _, kind := range []string{"originals", "thumbnails"} {
		path := filepath.Join(s.Root, "staging", kind, name)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", path).Msg("failed to discard staged artifact")
		}
	}
}

func (s *DiskStore) Remove(ctx context.Context, name string) {
	for _, kind := range []string{"originals", "thumbnails"} {
		path := filepath.Join(s.Root, kind, name)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", path).Msg("failed to remove artifact")
		}
	}
}

func (s *DiskStore) ReadThumbnail(ctx context.Context, name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.Root, "thumbnails", name))
}

func (s *DiskStore) OriginalURL(name string) string {
	return "/uploads/originals/" + name
}

func (s *DiskStore) ThumbnailURL(name string) string {
	return "/uploads/thumbnails/" + name
}
