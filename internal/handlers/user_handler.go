package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gravadigital/orbitview-api/internal/response"
	"github.com/gravadigital/orbitview-api/internal/services"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// GetMe handles GET /api/users/me
func (h *UserHandler) GetMe(c *gin.Context) {
	me, ok := viewer(c)
	if !ok {
		return
	}

	u, err := h.users.GetMe(c.Request.Context(), me)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, u)
}

// UpdateMe handles PATCH /api/users/me
func (h *UserHandler) UpdateMe(c *gin.Context) {
	me, ok := viewer(c)
	if !ok {
		return
	}

	var req services.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	u, err := h.users.UpdateMe(c.Request.Context(), me, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Profile updated", u)
}
