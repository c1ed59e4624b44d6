package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/seojin-dev/moodshift-backend/internal/platform/apierr"
)

// writeError maps a service error onto the response. Errors carrying an
// apierr status use it; everything else becomes the fallback status.
func writeError(c *gin.Context, err error, fallback int) {
	status := apierr.StatusOf(err, fallback)
	body := gin.H{"error": err.Error()}
	if code := apierr.CodeOf(err); code != "" {
		body["code"] = code
	}
	c.JSON(status, body)
}

func writeInternalError(c *gin.Context, err error) {
	writeError(c, err, http.StatusInternalServerError)
}
