package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard/internal/apperrors"
	"taskboard/internal/services"
)

type ProfileHandler struct {
	userService services.UserService
}

func NewProfileHandler(userService services.UserService) *ProfileHandler {
	return &ProfileHandler{userService: userService}
}

// GET /api/profile
func (h *ProfileHandler) Get(c *gin.Context) {
	userID, _ := currentUser(c)
	user, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondErr(c, err)
		return
	}
	if user == nil {
		respondErr(c, apperrors.NotFound("not_found", "user not found"))
		return
	}
	respondOK(c, http.StatusOK, user)
}

// PUT /api/profile
func (h *ProfileHandler) Update(c *gin.Context) {
	userID, _ := currentUser(c)

	var req struct {
		DisplayName *string `json:"display_name"`
		AvatarURL   *string `json:"avatar_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindErr(c, err)
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, services.ProfilePatch{
		DisplayName: req.DisplayName,
		AvatarURL:   req.AvatarURL,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, http.StatusOK, user)
}
