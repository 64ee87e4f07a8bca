package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"taskboard/internal/apperrors"
	"taskboard/internal/models"
	"taskboard/internal/services"
	"taskboard/internal/utils"
)

type AuthHandler struct {
	userService services.UserService
	authService services.AuthService
	refreshTTL  time.Duration
}

func NewAuthHandler(userService services.UserService, authService services.AuthService, refreshTTL time.Duration) *AuthHandler {
	if refreshTTL <= 0 {
		refreshTTL = 30 * 24 * time.Hour
	}
	return &AuthHandler{userService: userService, authService: authService, refreshTTL: refreshTTL}
}

// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindErr(c, err)
		return
	}

	user, err := h.userService.Register(c.Request.Context(), req)
	if err != nil {
		log.Printf("[auth][register][err] username=%q: %v", req.Username, err)
		respondErr(c, err)
		return
	}
	log.Printf("[auth][register][ok] id=%d username=%q", user.ID, user.Username)
	respondOK(c, http.StatusCreated, user)
}

// POST /api/auth/login — accepts username or email in the username field.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindErr(c, err)
		return
	}

	user, err := h.userService.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		log.Printf("[auth][login][err] login=%q: %v", req.Username, err)
		respondErr(c, err)
		return
	}

	access, err := h.authService.NewAccessToken(user)
	if err != nil {
		log.Printf("[auth][login][err] sign token user=%d: %v", user.ID, err)
		respondErr(c, err)
		return
	}

	refresh, err := utils.NewRefreshToken(32)
	if err != nil {
		respondErr(c, err)
		return
	}
	if err := h.userService.StoreRefresh(c.Request.Context(), user.ID, refresh, time.Now().Add(h.refreshTTL)); err != nil {
		log.Printf("[auth][login][err] store refresh user=%d: %v", user.ID, err)
		respondErr(c, err)
		return
	}

	log.Printf("[auth][login][ok] user=%d role=%s", user.ID, user.Role)
	respondOK(c, http.StatusOK, gin.H{
		"user":          user,
		"access_token":  access,
		"refresh_token": refresh,
	})
}

// POST /api/auth/refresh — rotates the opaque refresh token.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindErr(c, err)
		return
	}

	old := strings.TrimSpace(req.RefreshToken)
	user, err := h.userService.GetByRefreshToken(c.Request.Context(), old)
	if err != nil {
		respondErr(c, err)
		return
	}
	if user == nil || user.RefreshExpiresAt == nil || time.Now().After(*user.RefreshExpiresAt) {
		respondErr(c, apperrors.Unauthorized("invalid_refresh", "invalid or expired refresh token"))
		return
	}
	if user.Blocked {
		respondErr(c, apperrors.Forbidden("account is blocked"))
		return
	}

	access, err := h.authService.NewAccessToken(user)
	if err != nil {
		respondErr(c, err)
		return
	}
	next, err := utils.NewRefreshToken(32)
	if err != nil {
		respondErr(c, err)
		return
	}
	if err := h.userService.StoreRefresh(c.Request.Context(), user.ID, next, time.Now().Add(h.refreshTTL)); err != nil {
		respondErr(c, err)
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"access_token":  access,
		"refresh_token": next,
	})
}

// POST /api/auth/logout — revokes the stored refresh token; the short
// access token just runs out.
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, _ := currentUser(c)
	if err := h.userService.ClearRefresh(c.Request.Context(), userID); err != nil {
		respondErr(c, err)
		return
	}
	log.Printf("[auth][logout][ok] user=%d", userID)
	respondOK(c, http.StatusOK, nil)
}

// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
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

// PUT /api/auth/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, _ := currentUser(c)

	var req struct {
		Current string `json:"current" binding:"required"`
		New     string `json:"new" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindErr(c, err)
		return
	}

	if err := h.userService.ChangePassword(c.Request.Context(), userID, req.Current, req.New); err != nil {
		log.Printf("[auth][password][err] user=%d: %v", userID, err)
		respondErr(c, err)
		return
	}
	log.Printf("[auth][password][ok] user=%d", userID)
	respondOK(c, http.StatusOK, nil)
}
