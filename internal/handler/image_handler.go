package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/globalaidnetwork/internal/service"
)

// ListImages returns a page of uploaded images.
func (a *API) ListImages(c *gin.Context) {
	page := parsePositiveInt(c.DefaultQuery("page", "1"), 1)
	perPage := parsePositiveInt(c.DefaultQuery("per_page", "24"), 24)

	result, err := a.images.List(page, perPage)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list images")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":      result.Items,
		"page":       result.Page,
		"perPage":    result.PerPage,
		"total":      result.Total,
		"totalPages": result.TotalPages,
	})
}

// GetImage returns one image.
func (a *API) GetImage(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid image id")
		return
	}

	item, err := a.images.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrImageNotFound) {
			respondError(c, http.StatusNotFound, "image not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to load image")
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

// UploadImage 处理图片上传请求
func (a *API) UploadImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, service.MaxImageBytes+(1<<20))

	file, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "image file is required")
		return
	}

	src, err := file.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "failed to read upload")
		return
	}
	defer src.Close()

	item, err := a.images.Create(service.ImageUpload{
		Title:    c.PostForm("title"),
		FileName: file.Filename,
		Reader:   src,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrImageInvalid):
			respondError(c, http.StatusBadRequest, "only jpeg, png, gif and webp images are accepted")
		case errors.Is(err, service.ErrImageTooLarge):
			respondError(c, http.StatusRequestEntityTooLarge, "image is too large")
		default:
			log.Printf("[image] upload failed: %v", err)
			respondError(c, http.StatusInternalServerError, "failed to store image")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "image uploaded", "item": item})
}

// DeleteImage removes an image and clears the snippets pointing at it.
func (a *API) DeleteImage(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid image id")
		return
	}

	if err := a.images.Delete(id); err != nil {
		if errors.Is(err, service.ErrImageNotFound) {
			respondError(c, http.StatusNotFound, "image not found")
			return
		}
		log.Printf("[image] delete %d failed: %v", id, err)
		respondError(c, http.StatusInternalServerError, "failed to delete image")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "image deleted"})
}
