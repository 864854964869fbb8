package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abdur28/boarding-sky-sub000/media"
	"github.com/abdur28/boarding-sky-sub000/metrics"
	"github.com/abdur28/boarding-sky-sub000/utils"
)

type deleteImagePayload struct {
	URLs []string `json:"urls" binding:"required"`
}

type uploadImagePayload struct {
	Image  string `json:"image" binding:"required"`
	Folder string `json:"folder"`
}

type MediaController struct {
	Store media.Store
}

func NewMediaController(store media.Store) *MediaController {
	return &MediaController{Store: store}
}

// DeleteImage: POST /api/actions/delete-image {urls: [...]}
func (mc *MediaController) DeleteImage(c *gin.Context) {
	var payload deleteImagePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	if len(payload.URLs) == 0 {
		utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": 0})
		return
	}

	metrics.ImagesQueued.Add(float64(len(payload.URLs)))
	if err := mc.Store.Delete(c.Request.Context(), payload.URLs); err != nil {
		metrics.ImageCleanupTotal.WithLabelValues("error").Inc()
		log.Printf("⚠️  delete-image failed: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to delete images")
		return
	}
	metrics.ImageCleanupTotal.WithLabelValues("ok").Inc()
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": len(payload.URLs)})
}

// UploadImage: POST /api/actions/upload-image {image: <base64 or data URL>, folder}
func (mc *MediaController) UploadImage(c *gin.Context) {
	var payload uploadImagePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	url, err := mc.Store.Save(c.Request.Context(), payload.Image, payload.Folder)
	if err != nil {
		if errors.Is(err, media.ErrEmptyImage) {
			utils.JSONError(c, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("❌ upload-image failed: %v", err)
		utils.JSONError(c, http.StatusBadRequest, "invalid image")
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, gin.H{"url": url})
}
