package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"panovault/middleware"
	"panovault/services"
)

// BatchUploadImages handles POST /images/upload-multiple. Each file in the
// multipart "images" field is processed independently; the response is the
// list of records that were created, even when some files failed.
func BatchUploadImages(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "failed to parse multipart form"})
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "no files uploaded (field 'images' missing or empty)"})
		return
	}

	var items []services.UploadItem
	for _, file := range files {
		src, err := file.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			continue
		}
		items = append(items, services.UploadItem{
			Data:     data,
			Name:     file.Filename,
			Size:     file.Size,
			MimeType: file.Header.Get("Content-Type"),
		})
	}

	created, _ := uploader.UploadBatch(c.Request.Context(), middleware.UserID(c), items)

	data := make([]ImageResponse, 0, len(created))
	for _, img := range created {
		data = append(data, toImageResponse(img))
	}
	c.JSON(http.StatusCreated, data)
}
