package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"panovault/middleware"
	"panovault/repository"
)

// GetStats returns aggregate counters over the caller's images.
func GetStats(c *gin.Context) {
	stats, err := repository.AggregateImageStats(middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to compute stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetTags returns every tag used by the caller's images, sorted.
func GetTags(c *gin.Context) {
	tags, err := repository.DistinctTags(middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to list tags"})
		return
	}
	c.JSON(http.StatusOK, tags)
}
