package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard/internal/models"
	"taskboard/internal/services"
)

type TaskHandler struct {
	service services.TaskService
}

func NewTaskHandler(service services.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// GET /api/tasks?filter=&sort=&q=
func (h *TaskHandler) List(c *gin.Context) {
	userID, _ := currentUser(c)

	opts := models.TaskListOptions{
		Filter: models.TaskStatusFilter(c.DefaultQuery("filter", string(models.FilterAll))),
		Sort:   models.TaskSort(c.DefaultQuery("sort", string(models.SortPosition))),
		Search: c.Query("q"),
	}

	tasks, err := h.service.List(c.Request.Context(), userID, opts)
	if err != nil {
		log.Printf("[task][list][err] user=%d: %v", userID, err)
		respondErr(c, err)
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	respondOK(c, http.StatusOK, tasks)
}

// POST /api/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	userID, _ := currentUser(c)

	var req struct {
		Text        string              `json:"text" binding:"required"`
		Description string              `json:"description"`
		Category    string              `json:"category"`
		Priority    models.TaskPriority `json:"priority"`
		DueDate     string              `json:"due_date"`
		Remind      bool                `json:"remind"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindErr(c, err)
		return
	}

	task := &models.Task{
		Text:        req.Text,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
		Remind:      req.Remind,
	}
	if req.DueDate != "" {
		due, err := parseDate(req.DueDate)
		if err != nil {
			respondErr(c, err)
			return
		}
		task.DueDate = &due
	}

	created, err := h.service.Create(c.Request.Context(), userID, task)
	if err != nil {
		log.Printf("[task][create][err] user=%d: %v", userID, err)
		respondErr(c, err)
		return
	}
	log.Printf("[task][create][ok] user=%d id=%d pos=%d", userID, created.ID, created.Position)
	respondOK(c, http.StatusCreated, created)
}

// GET /api/tasks/:id
func (h *TaskHandler) GetByID(c *gin.Context) {
	userID, _ := currentUser(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondErr(c, err)
		return
	}

	task, err := h.service.Get(c.Request.Context(), userID, id)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, http.StatusOK, task)
}

// PUT /api/tasks/:id — partial update of content fields. Ordering changes
// go through /api/tasks/reorder only.
func (h *TaskHandler) Update(c *gin.Context) {
	userID, _ := currentUser(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondErr(c, err)
		return
	}

	var req struct {
		Text        *string              `json:"text"`
		Description *string              `json:"description"`
		Category    *string              `json:"category"`
		Priority    *models.TaskPriority `json:"priority"`
		DueDate     *string              `json:"due_date"`
		Remind      *bool                `json:"remind"`
		Completed   *bool                `json:"completed"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindErr(c, err)
		return
	}

	patch := services.TaskPatch{
		Text:        req.Text,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
		Remind:      req.Remind,
		Completed:   req.Completed,
	}
	if req.DueDate != nil {
		if *req.DueDate == "" {
			patch.ClearDue = true
		} else {
			due, err := parseDate(*req.DueDate)
			if err != nil {
				respondErr(c, err)
				return
			}
			patch.DueDate = &due
		}
	}

	updated, err := h.service.Update(c.Request.Context(), userID, id, patch)
	if err != nil {
		log.Printf("[task][update][err] user=%d id=%d: %v", userID, id, err)
		respondErr(c, err)
		return
	}
	respondOK(c, http.StatusOK, updated)
}

// DELETE /api/tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	userID, role := currentUser(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondErr(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, role, id); err != nil {
		log.Printf("[task][delete][err] user=%d id=%d: %v", userID, id, err)
		respondErr(c, err)
		return
	}
	log.Printf("[task][delete][ok] user=%d id=%d", userID, id)
	respondOK(c, http.StatusOK, nil)
}

// DELETE /api/tasks/completed — bulk clear, idempotent.
func (h *TaskHandler) ClearCompleted(c *gin.Context) {
	userID, _ := currentUser(c)

	deleted, err := h.service.ClearCompleted(c.Request.Context(), userID)
	if err != nil {
		log.Printf("[task][clear][err] user=%d: %v", userID, err)
		respondErr(c, err)
		return
	}
	log.Printf("[task][clear][ok] user=%d deleted=%d", userID, deleted)
	respondOK(c, http.StatusOK, gin.H{"deleted": deleted})
}

// PUT /api/tasks/reorder — body carries the complete new ordering.
func (h *TaskHandler) Reorder(c *gin.Context) {
	userID, _ := currentUser(c)

	var req struct {
		Order []int64 `json:"order" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindErr(c, err)
		return
	}

	if err := h.service.Reorder(c.Request.Context(), userID, req.Order); err != nil {
		log.Printf("[task][reorder][err] user=%d n=%d: %v", userID, len(req.Order), err)
		respondErr(c, err)
		return
	}
	log.Printf("[task][reorder][ok] user=%d n=%d", userID, len(req.Order))
	respondOK(c, http.StatusOK, nil)
}

// PUT /api/tasks/:id/assign
func (h *TaskHandler) Assign(c *gin.Context) {
	userID, role := currentUser(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondErr(c, err)
		return
	}

	var req struct {
		Username string `json:"username" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindErr(c, err)
		return
	}

	task, err := h.service.Assign(c.Request.Context(), userID, role, id, req.Username)
	if err != nil {
		log.Printf("[task][assign][err] user=%d id=%d to=%q: %v", userID, id, req.Username, err)
		respondErr(c, err)
		return
	}
	log.Printf("[task][assign][ok] user=%d id=%d to=%q", userID, id, req.Username)
	respondOK(c, http.StatusOK, task)
}
