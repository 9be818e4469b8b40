package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"panovault/repository"
)

// SharedImageByHash is the one public image endpoint: given a fingerprint and
// the share password, it returns an absolute URL to the original artifact. A
// missing record and a wrong password are indistinguishable to the caller.
func SharedImageByHash(c *gin.Context) {
	var input struct {
		SharePassword string `json:"sharePassword"`
	}
	_ = c.ShouldBindJSON(&input)

	img, err := repository.FindImageByHash(c.Param("hash"))
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Error().Err(err).Msg("hash lookup failed")
		}
		c.JSON(http.StatusNotFound, gin.H{"message": "image not found"})
		return
	}

	if !sharePasswordMatches(img.SharePassword, input.SharePassword) {
		c.JSON(http.StatusNotFound, gin.H{"message": "image not found"})
		return
	}

	if err := repository.IncrementViewCount(img.ID); err != nil {
		log.Warn().Err(err).Str("image", img.ID).Msg("failed to increment view count")
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       img.ID,
		"hash":     img.Hash,
		"imageUrl": absoluteURL(store.OriginalURL(img.FileName)),
	})
}

// sharePasswordMatches compares against the stored bcrypt hash. An image with
// no share password admits only an empty supplied password.
func sharePasswordMatches(stored, supplied string) bool {
	if stored == "" {
		return supplied == ""
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied)) == nil
}

func absoluteURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path // presigned object-storage URLs are already absolute
	}
	return publicBaseURL + path
}
