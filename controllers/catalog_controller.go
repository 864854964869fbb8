package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abdur28/boarding-sky-sub000/formdata"
	"github.com/abdur28/boarding-sky-sub000/services"
	"github.com/abdur28/boarding-sky-sub000/utils"
)

// CatalogController serves get-<plural> and update-<singular> for one entity.
type CatalogController[T any, P services.Record[T]] struct {
	Svc *services.CatalogService[T, P]
}

func NewCatalogController[T any, P services.Record[T]](svc *services.CatalogService[T, P]) *CatalogController[T, P] {
	return &CatalogController[T, P]{Svc: svc}
}

func (cc *CatalogController[T, P]) List(c *gin.Context) {
	filter, err := filterFrom(c)
	if err != nil {
		respondError(c, err)
		return
	}
	list, err := cc.Svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

// Update creates, replaces or (with action=delete) removes one record.
func (cc *CatalogController[T, P]) Update(c *gin.Context) {
	values, err := readPayload(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if values.Action() == "delete" {
		id := values.ID()
		if err := cc.Svc.Delete(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		utils.JSONSuccess(c, http.StatusOK, gin.H{"_id": id, "deleted": true})
		return
	}

	rec := P(new(T))
	if err := formdata.Decode(values, rec); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	status := http.StatusOK
	if rec.GetID() == "" {
		status = http.StatusCreated
	}
	saved, err := cc.Svc.Save(c.Request.Context(), rec)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, status, saved)
}
