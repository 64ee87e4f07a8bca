package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard/internal/services"
)

type ReminderHandler struct {
	service services.ReminderService
}

func NewReminderHandler(service services.ReminderService) *ReminderHandler {
	return &ReminderHandler{service: service}
}

// POST /api/reminders/send — on-demand scan for the caller; best effort,
// may re-notify on repeated calls.
func (h *ReminderHandler) Send(c *gin.Context) {
	userID, _ := currentUser(c)

	res, err := h.service.SendDueReminders(c.Request.Context(), userID)
	if err != nil {
		log.Printf("[reminder][send][err] user=%d: %v", userID, err)
		respondErr(c, err)
		return
	}
	log.Printf("[reminder][send][ok] user=%d count=%d sent=%d", userID, res.Count, res.Sent)
	respondOK(c, http.StatusOK, res)
}
