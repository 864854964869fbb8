package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abdur28/boarding-sky-sub000/services"
	"github.com/abdur28/boarding-sky-sub000/utils"
)

type updateRolePayload struct {
	ID   string `json:"_id" binding:"required"`
	Role string `json:"role" binding:"required"`
}

type RoleController struct {
	Users *services.UserService
}

func NewRoleController(users *services.UserService) *RoleController {
	return &RoleController{Users: users}
}

// UpdateUserRole: POST /api/actions/update-user-role {_id, role}
func (rc *RoleController) UpdateUserRole(c *gin.Context) {
	var payload updateRolePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := rc.Users.SetRole(c.Request.Context(), payload.ID, payload.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, user)
}
