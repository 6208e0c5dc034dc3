package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"cvforge/internal/api/middleware"
	"cvforge/internal/resume"
)

const (
	msgUnauthorized     = "Unauthorized"
	msgCVNotFound       = "CV not found"
	msgTemplateNotFound = "Template not found"
	msgValidationFailed = "Validation failed"
	msgInternal         = "Internal server error"
)

func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

func AbortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msgUnauthorized})
}

func NotFound(c *gin.Context, msg string) { Error(c, http.StatusNotFound, msg) }

// ValidationFailed 返回 400 以及逐字段的错误明细。
func ValidationFailed(c *gin.Context, violations []resume.Violation) {
	if violations == nil {
		violations = []resume.Violation{}
	}
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   msgValidationFailed,
		"details": violations,
	})
}

// Internal logs the cause and answers with an opaque 500.
func Internal(c *gin.Context, msg string, err error) {
	middleware.LoggerFromContext(c).Error(msg, slog.Any("error", err))
	Error(c, http.StatusInternalServerError, msgInternal)
}
