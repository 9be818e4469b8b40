package repository

import (
	"errors"
	"sort"
	"strings"

	"gorm.io/gorm"

	"panovault/database"
	"panovault/models"
)

var ErrDuplicateHash = errors.New("an image with this hash already exists")

// Sortable columns; anything else falls back to created_at DESC.
var imageSortColumns = map[string]string{
	"title":      "title",
	"fileSize":   "size",
	"viewCount":  "view_count",
	"createdAt":  "created_at",
	"updatedAt":  "updated_at",
	"bookmarked": "bookmarked",
}

type ImageQuery struct {
	Title       string
	Description string
	Tags        []string // match any
	Bookmarked  []bool   // inclusion list
	SortField   string
	SortOrder   string // asc | desc
	Page        int
	PageSize    int
}

type ImageStats struct {
	TotalImages   int64 `json:"total_images"`
	TotalSize     int64 `json:"total_size"`
	TotalViews    int64 `json:"total_views"`
	Bookmarked    int64 `json:"bookmarked"`
	NotBookmarked int64 `json:"not_bookmarked"`
}

func CreateImage(img *models.Image) error {
	if err := database.DB.Create(img).Error; err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: images.hash") {
			return ErrDuplicateHash
		}
		return err
	}
	return nil
}

// ListImages returns one page of the owner's images plus the total count of
// everything matching the filter.
func ListImages(ownerID string, q ImageQuery) ([]models.Image, int64, error) {
	tx := database.DB.Model(&models.Image{}).Where("user_id = ?", ownerID)

	if q.Title != "" {
		tx = tx.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(q.Title)+"%")
	}
	if q.Description != "" {
		tx = tx.Where("LOWER(description) LIKE ?", "%"+strings.ToLower(q.Description)+"%")
	}
	if len(q.Tags) > 0 {
		// tags column is comma-joined; wrap both sides in commas so a tag
		// only matches whole entries, not substrings of other tags
		cond := database.DB.Where("(',' || tags || ',') LIKE ?", "%,"+q.Tags[0]+",%")
		for _, t := range q.Tags[1:] {
			cond = cond.Or("(',' || tags || ',') LIKE ?", "%,"+t+",%")
		}
		tx = tx.Where(cond)
	}
	if len(q.Bookmarked) > 0 {
		tx = tx.Where("bookmarked IN ?", q.Bookmarked)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "created_at DESC"
	if col, ok := imageSortColumns[q.SortField]; ok {
		dir := "ASC"
		if strings.EqualFold(q.SortOrder, "desc") {
			dir = "DESC"
		}
		order = col + " " + dir
	}

	var images []models.Image
	err := tx.Order(order).
		Limit(q.PageSize).
		Offset((q.Page - 1) * q.PageSize).
		Find(&images).Error
	return images, total, err
}

// FindImageByOwner folds the ownership check into the lookup: an image owned
// by someone else is indistinguishable from a missing one.
func FindImageByOwner(id, ownerID string) (*models.Image, error) {
	var img models.Image
	if err := database.DB.Where("id = ? AND user_id = ?", id, ownerID).First(&img).Error; err != nil {
		return nil, err
	}
	return &img, nil
}

// FindImageByHash is the one unscoped lookup, used by the public share endpoint.
func FindImageByHash(hash string) (*models.Image, error) {
	var img models.Image
	if err := database.DB.Where("hash = ?", hash).First(&img).Error; err != nil {
		return nil, err
	}
	return &img, nil
}

func AggregateImageStats(ownerID string) (*ImageStats, error) {
	var stats ImageStats
	err := database.DB.Raw(`
		SELECT COUNT(*)                                           AS total_images,
		       COALESCE(SUM(size), 0)                             AS total_size,
		       COALESCE(SUM(view_count), 0)                       AS total_views,
		       COALESCE(SUM(CASE WHEN bookmarked THEN 1 END), 0)  AS bookmarked
		FROM images
		WHERE user_id = ?`, ownerID).Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	stats.NotBookmarked = stats.TotalImages - stats.Bookmarked
	return &stats, nil
}

// DistinctTags returns every tag used by the owner's images, sorted.
func DistinctTags(ownerID string) ([]string, error) {
	var rows []string
	if err := database.DB.Model(&models.Image{}).
		Where("user_id = ? AND tags != ''", ownerID).
		Pluck("tags", &rows).Error; err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	tags := []string{}
	for _, row := range rows {
		for _, t := range strings.Split(row, ",") {
			if t = strings.TrimSpace(t); t != "" && !seen[t] {
				seen[t] = true
				tags = append(tags, t)
			}
		}
	}
	sort.Strings(tags)
	return tags, nil
}

func UpdateImage(img *models.Image) error {
	return database.DB.Save(img).Error
}

func DeleteImage(img *models.Image) error {
	return database.DB.Delete(img).Error
}

// IncrementViewCount bumps the counter in SQL so concurrent views never
// clobber each other.
func IncrementViewCount(id string) error {
	return database.DB.Model(&models.Image{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}
