package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taskboard/internal/services"
)

type AnalyticsHandler struct {
	service services.AnalyticsService
}

func NewAnalyticsHandler(service services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// GET /api/analytics/summary
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	userID, _ := currentUser(c)
	summary, err := h.service.Summary(c.Request.Context(), userID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, http.StatusOK, summary)
}

// GET /api/analytics/export — weekly report as a PDF download.
func (h *AnalyticsHandler) Export(c *gin.Context) {
	userID, _ := currentUser(c)
	data, err := h.service.ExportPDF(c.Request.Context(), userID)
	if err != nil {
		respondErr(c, err)
		return
	}
	filename := "taskboard-report-" + time.Now().Format("2006-01-02") + ".pdf"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}
