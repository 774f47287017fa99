package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/artyaffairs/storefront/internal/storage"
)

// UploadFile handles POST /v1/admin/upload
// It stores the multipart "file" under the optional "folder" form field and
// returns the object's public URL.
func (h *Handlers) UploadFile(c *gin.Context) {
	// 1. Get the file from the request
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	if file.Size > storage.MaxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File is too large"})
		return
	}

	// 2. Save it to object storage
	obj, err := h.Uploads.Save(file, c.PostForm("folder"))
	if err != nil {
		log.Printf("handlers: upload of %q failed: %v", file.Filename, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}

	// 3. Return the public URL
	c.JSON(http.StatusOK, gin.H{
		"url":      obj.URL,
		"path":     obj.Path,
		"is_video": obj.IsVideo,
	})
}
