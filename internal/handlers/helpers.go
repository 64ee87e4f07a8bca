package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"taskboard/internal/apperrors"
)

// Every response uses the same envelope: {ok, data} or {ok, error, message}.

func respondOK(c *gin.Context, status int, data interface{}) {
	if data == nil {
		c.JSON(status, gin.H{"ok": true})
		return
	}
	c.JSON(status, gin.H{"ok": true, "data": data})
}

func respondErr(c *gin.Context, err error) {
	c.JSON(apperrors.HTTPStatus(err), gin.H{
		"ok":      false,
		"error":   apperrors.WireCode(err),
		"message": apperrors.WireMessage(err),
	})
}

func respondBindErr(c *gin.Context, err error) {
	respondErr(c, apperrors.Validation("invalid_input", err.Error()))
}

func currentUser(c *gin.Context) (userID int64, role string) {
	if v, ok := c.Get("user_id"); ok {
		switch t := v.(type) {
		case int64:
			userID = t
		case int:
			userID = int64(t)
		case float64:
			userID = int64(t)
		}
	}
	if v, ok := c.Get("role"); ok {
		role, _ = v.(string)
	}
	return
}

func parseIDParam(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, apperrors.Validation("invalid_id", "invalid "+name)
	}
	return id, nil
}

// parseDate accepts either RFC3339 or a bare date, which is what the
// due-date picker submits.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, apperrors.Validation("invalid_date", "date must be RFC3339 or YYYY-MM-DD")
	}
	return t, nil
}
