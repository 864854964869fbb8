package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abdur28/boarding-sky-sub000/formdata"
	"github.com/abdur28/boarding-sky-sub000/models"
	"github.com/abdur28/boarding-sky-sub000/services"
	"github.com/abdur28/boarding-sky-sub000/utils"
)

type SettingsController struct {
	Svc *services.SettingsService
}

func NewSettingsController(svc *services.SettingsService) *SettingsController {
	return &SettingsController{Svc: svc}
}

func (sc *SettingsController) GetConfig(c *gin.Context) {
	cfg, err := sc.Svc.GetConfig(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, cfg)
}

func (sc *SettingsController) UpdateConfig(c *gin.Context) {
	values, err := readPayload(c)
	if err != nil {
		respondError(c, err)
		return
	}
	var cfg models.SiteConfig
	if err := formdata.Decode(values, &cfg); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	saved, err := sc.Svc.UpdateConfig(c.Request.Context(), cfg)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, saved)
}

// GetPage returns the handler for get-<slug>.
func (sc *SettingsController) GetPage(slug string) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := sc.Svc.GetPage(c.Request.Context(), slug)
		if err != nil {
			respondError(c, err)
			return
		}
		utils.JSONSuccess(c, http.StatusOK, page)
	}
}

// UpdatePage returns the handler for update-<slug>.
func (sc *SettingsController) UpdatePage(slug string) gin.HandlerFunc {
	return func(c *gin.Context) {
		values, err := readPayload(c)
		if err != nil {
			respondError(c, err)
			return
		}
		page, err := sc.Svc.UpdatePage(c.Request.Context(), slug, values.Get("title"), values.Get("content"))
		if err != nil {
			respondError(c, err)
			return
		}
		utils.JSONSuccess(c, http.StatusOK, page)
	}
}
