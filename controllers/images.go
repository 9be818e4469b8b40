package controllers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"panovault/config"
	"panovault/middleware"
	"panovault/models"
	"panovault/repository"
	"panovault/services"
)

var (
	store         services.ArtifactStore
	uploader      *services.Uploader
	aiSuggester   services.MetadataSuggester
	publicBaseURL string
)

// Configure wires the controllers' dependencies once at startup. The metadata
// suggester is an optional capability and may be nil.
func Configure(cfg *config.Config, artifactStore services.ArtifactStore, suggester services.MetadataSuggester) {
	store = artifactStore
	uploader = &services.Uploader{
		Store:       artifactStore,
		ThumbWidth:  cfg.ThumbWidth,
		ThumbHeight: cfg.ThumbHeight,
	}
	aiSuggester = suggester
	publicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")
}

// ImageResponse mirrors the database model but renders tags as an array.
type ImageResponse struct {
	models.Image
	Tags []string `json:"tags"`
}

func toImageResponse(img models.Image) ImageResponse {
	return ImageResponse{Image: img, Tags: img.TagList()}
}

// ListImages returns one page of the caller's images.
// Query params: page, pageSize, sortField, sortOrder, title, description, tags, bookmarked
func ListImages(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "10"))
	if pageSize < 1 {
		pageSize = 10
	}

	query := repository.ImageQuery{
		Title:       c.Query("title"),
		Description: c.Query("description"),
		Tags:        splitParam(c.Query("tags")),
		SortField:   c.Query("sortField"),
		SortOrder:   c.Query("sortOrder"),
		Page:        page,
		PageSize:    pageSize,
	}
	for _, v := range splitParam(c.Query("bookmarked")) {
		if b, err := strconv.ParseBool(v); err == nil {
			query.Bookmarked = append(query.Bookmarked, b)
		}
	}

	images, total, err := repository.ListImages(middleware.UserID(c), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to list images"})
		return
	}

	data := make([]ImageResponse, 0, len(images))
	for _, img := range images {
		data = append(data, toImageResponse(img))
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     data,
		"total":    total,
		"page":     page,
		"pageSize": pageSize,
	})
}

// GetImage returns one of the caller's images by id.
func GetImage(c *gin.Context) {
	img, ok := findOwnedImage(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toImageResponse(*img))
}

type UpdateDetailsInput struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Tags          []string `json:"tags"`
	SharePassword string   `json:"sharePassword"`
}

// UpdateImageDetails replaces title, description, tags and share password
// wholesale; omitted fields are cleared.
func UpdateImageDetails(c *gin.Context) {
	img, ok := findOwnedImage(c)
	if !ok {
		return
	}

	var input UpdateDetailsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body", "error": err.Error()})
		return
	}

	img.Title = input.Title
	img.Description = input.Description
	img.SetTags(input.Tags)
	if input.SharePassword == "" {
		img.SharePassword = ""
	} else {
		hashed, err := bcrypt.GenerateFromPassword([]byte(input.SharePassword), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to update image"})
			return
		}
		img.SharePassword = string(hashed)
	}

	if err := repository.UpdateImage(img); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to update image"})
		return
	}
	c.JSON(http.StatusOK, toImageResponse(*img))
}

// ToggleBookmark sets the bookmarked flag, or flips it when the body carries
// no explicit value.
func ToggleBookmark(c *gin.Context) {
	img, ok := findOwnedImage(c)
	if !ok {
		return
	}

	var input struct {
		Bookmarked *bool `json:"bookmarked"`
	}
	// an empty body is fine and means toggle
	_ = c.ShouldBindJSON(&input)

	if input.Bookmarked != nil {
		img.Bookmarked = *input.Bookmarked
	} else {
		img.Bookmarked = !img.Bookmarked
	}

	if err := repository.UpdateImage(img); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to update image"})
		return
	}
	c.JSON(http.StatusOK, toImageResponse(*img))
}

// DeleteImage removes the record and, best-effort in the background, its
// artifacts.
func DeleteImage(c *gin.Context) {
	img, ok := findOwnedImage(c)
	if !ok {
		return
	}

	if err := repository.DeleteImage(img); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to delete image"})
		return
	}

	name := img.FileName
	go store.Remove(context.Background(), name)

	c.JSON(http.StatusOK, gin.H{"message": "image deleted"})
}

// SuggestMetadata asks the AI integration for a title, description and tags
// derived from the stored thumbnail.
func SuggestMetadata(c *gin.Context) {
	if aiSuggester == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "AI integration is not configured"})
		return
	}

	img, ok := findOwnedImage(c)
	if !ok {
		return
	}

	var input struct {
		Lang string `json:"lang"`
	}
	_ = c.ShouldBindJSON(&input)

	thumb, err := store.ReadThumbnail(c.Request.Context(), img.FileName)
	if err != nil {
		log.Error().Err(err).Str("image", img.ID).Msg("failed to read thumbnail for AI metadata")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to read image"})
		return
	}

	suggestion, err := aiSuggester.Suggest(c.Request.Context(), thumb, img.MimeType, input.Lang)
	if err != nil {
		log.Error().Err(err).Str("image", img.ID).Msg("AI metadata suggestion failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to generate metadata"})
		return
	}
	c.JSON(http.StatusOK, suggestion)
}

// findOwnedImage looks up :id scoped to the caller and writes the 404 itself
// when the image is absent or owned by someone else.
func findOwnedImage(c *gin.Context) (*models.Image, bool) {
	img, err := repository.FindImageByOwner(c.Param("id"), middleware.UserID(c))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"message": "image not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "database error"})
		}
		return nil, false
	}
	return img, true
}

func splitParam(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
