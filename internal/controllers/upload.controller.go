package controllers

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"gatepass/internal/utils"
)

var photoExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// UploadPhoto stores a student photo and returns the path to embed in the
// gate pass request.
func UploadPhoto(c *gin.Context) {
	file, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request data",
			"error":   "No file uploaded. Use multipart field 'photo'",
		})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !photoExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid file format",
			"error":   "Only .jpg, .jpeg and .png files are supported",
		})
		return
	}

	path, err := utils.SaveUpload(c, file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to store upload",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Photo uploaded successfully",
		"data":    gin.H{"path": path},
	})
}
