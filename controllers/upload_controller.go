package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swathoops/swathoops-api/config"
	"github.com/swathoops/swathoops-api/services"
	"github.com/swathoops/swathoops-api/utils"
)

// UploadImages handles POST /api/v1/upload - admin upload of product
// images, returning their public URLs
func UploadImages(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid multipart form data",
			},
		})
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NO_FILES",
				"message": "No files provided",
			},
		})
		return
	}

	imageService := services.GetImageService()
	maxSize := config.GetConfig().MaxUploadSize

	urls := make([]string, 0, len(files))
	for _, fileHeader := range files {
		url, err := imageService.UploadImage(fileHeader, maxSize)
		if err != nil {
			var uploadErr *utils.FileUploadError
			if errors.As(err, &uploadErr) {
				c.JSON(http.StatusBadRequest, gin.H{
					"success": false,
					"error": gin.H{
						"code":    uploadErr.Code,
						"message": uploadErr.Message,
					},
				})
				return
			}

			log.Printf("Failed to upload image %s: %v", fileHeader.Filename, err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UPLOAD_ERROR",
					"message": "Upload failed",
				},
			})
			return
		}
		urls = append(urls, url)
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"urls": urls,
		},
	})
}
