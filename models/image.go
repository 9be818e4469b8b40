package models

import (
	"sort"
	"strings"
	"time"
)

type Image struct {
	ID            string    `gorm:"primaryKey;type:text" json:"id"`
	UserID        string    `gorm:"index;not null" json:"user_id"`
	FileName      string    `gorm:"not null" json:"file_name"`
	OriginalPath  string    `gorm:"not null" json:"original_path"`
	ThumbnailPath string    `gorm:"not null" json:"thumbnail_path"`
	Size          int64     `json:"size"`
	MimeType      string    `json:"mime_type"`
	Width         *int      `json:"width,omitempty"`
	Height        *int      `json:"height,omitempty"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Tags          string    `gorm:"type:text" json:"-"` // comma-joined, see TagList
	Bookmarked    bool      `gorm:"index" json:"bookmarked"`
	ViewCount     int64     `json:"view_count"`
	Hash          string    `gorm:"uniqueIndex;not null" json:"hash"`
	SharePassword string    `json:"-"` // bcrypt hash, empty means not shared with a password
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TagList splits the stored comma-joined tags, never returning nil so JSON
// responses render [] rather than null.
func (i *Image) TagList() []string {
	tags := []string{}
	for _, t := range strings.Split(i.Tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// SetTags stores a deduplicated, sorted copy of the given tags.
func (i *Image) SetTags(tags []string) {
	seen := map[string]bool{}
	var clean []string
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		clean = append(clean, t)
	}
	sort.Strings(clean)
	i.Tags = strings.Join(clean, ",")
}
