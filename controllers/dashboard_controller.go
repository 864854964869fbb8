package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abdur28/boarding-sky-sub000/access"
	"github.com/abdur28/boarding-sky-sub000/middleware"
	"github.com/abdur28/boarding-sky-sub000/utils"
)

// Sections is the navigation for the calling actor.
func Sections(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"email":    actor.Email,
		"role":     actor.Role,
		"sections": access.Visible(actor.Role),
	})
}

func RoleMatrix(c *gin.Context) {
	utils.JSONSuccess(c, http.StatusOK, access.Matrix())
}
