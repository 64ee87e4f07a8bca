package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard/internal/models"
	"taskboard/internal/services"
)

type AdminHandler struct {
	userService services.UserService
}

func NewAdminHandler(userService services.UserService) *AdminHandler {
	return &AdminHandler{userService: userService}
}

// GET /api/admin/users?q=&role=
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.AdminList(c.Request.Context(), models.UserFilter{
		Query: c.Query("q"),
		Role:  c.Query("role"),
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	respondOK(c, http.StatusOK, users)
}

// PUT /api/admin/users/:id
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	adminID, _ := currentUser(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondErr(c, err)
		return
	}

	var req struct {
		DisplayName *string `json:"display_name"`
		AvatarURL   *string `json:"avatar_url"`
		Email       *string `json:"email"`
		Role        *string `json:"role"`
		Blocked     *bool   `json:"blocked"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindErr(c, err)
		return
	}

	user, err := h.userService.AdminUpdate(c.Request.Context(), id, services.AdminUserPatch{
		DisplayName: req.DisplayName,
		AvatarURL:   req.AvatarURL,
		Email:       req.Email,
		Role:        req.Role,
		Blocked:     req.Blocked,
	})
	if err != nil {
		log.Printf("[admin][user-update][err] admin=%d target=%d: %v", adminID, id, err)
		respondErr(c, err)
		return
	}
	log.Printf("[admin][user-update][ok] admin=%d target=%d", adminID, id)
	respondOK(c, http.StatusOK, user)
}
