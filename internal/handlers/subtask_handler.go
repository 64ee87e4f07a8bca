package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard/internal/models"
	"taskboard/internal/services"
)

type SubtaskHandler struct {
	service services.SubtaskService
}

func NewSubtaskHandler(service services.SubtaskService) *SubtaskHandler {
	return &SubtaskHandler{service: service}
}

// GET /api/tasks/:id/subtasks
func (h *SubtaskHandler) ListByTask(c *gin.Context) {
	userID, _ := currentUser(c)
	taskID, err := parseIDParam(c, "id")
	if err != nil {
		respondErr(c, err)
		return
	}

	subtasks, err := h.service.ListByTask(c.Request.Context(), userID, taskID)
	if err != nil {
		respondErr(c, err)
		return
	}
	if subtasks == nil {
		subtasks = []models.Subtask{}
	}
	respondOK(c, http.StatusOK, subtasks)
}

// POST /api/tasks/:id/subtasks
func (h *SubtaskHandler) Create(c *gin.Context) {
	userID, _ := currentUser(c)
	taskID, err := parseIDParam(c, "id")
	if err != nil {
		respondErr(c, err)
		return
	}

	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindErr(c, err)
		return
	}

	st, err := h.service.Create(c.Request.Context(), userID, taskID, req.Text)
	if err != nil {
		log.Printf("[subtask][create][err] user=%d task=%d: %v", userID, taskID, err)
		respondErr(c, err)
		return
	}
	respondOK(c, http.StatusCreated, st)
}

// PUT /api/subtasks/:id
func (h *SubtaskHandler) Update(c *gin.Context) {
	userID, _ := currentUser(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondErr(c, err)
		return
	}

	var req struct {
		Text      *string `json:"text"`
		Completed *bool   `json:"completed"`
		Position  *int    `json:"position"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindErr(c, err)
		return
	}

	st, err := h.service.Update(c.Request.Context(), userID, id, services.SubtaskPatch{
		Text:      req.Text,
		Completed: req.Completed,
		Position:  req.Position,
	})
	if err != nil {
		log.Printf("[subtask][update][err] user=%d id=%d: %v", userID, id, err)
		respondErr(c, err)
		return
	}
	respondOK(c, http.StatusOK, st)
}

// DELETE /api/subtasks/:id
func (h *SubtaskHandler) Delete(c *gin.Context) {
	userID, _ := currentUser(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondErr(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, id); err != nil {
		log.Printf("[subtask][delete][err] user=%d id=%d: %v", userID, id, err)
		respondErr(c, err)
		return
	}
	respondOK(c, http.StatusOK, nil)
}
