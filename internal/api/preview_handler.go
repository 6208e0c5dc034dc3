package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cvforge/internal/api/middleware"
	"cvforge/internal/render"
	"cvforge/internal/resume"
	"cvforge/internal/store"
)

const htmlContentType = "text/html; charset=utf-8"

// PreviewHandler 将文档渲染为可打印的 HTML 页面。
type PreviewHandler struct {
	store store.CVStore
}

func NewPreviewHandler(cvs store.CVStore) *PreviewHandler {
	return &PreviewHandler{store: cvs}
}

type previewRequest struct {
	Content    json.RawMessage `json:"content"`
	TemplateID string          `json:"templateId"`
}

// GET /cvs/:id/preview?template=
// 未指定 template 时使用文档自身的模板。
func (h *PreviewHandler) PreviewCV(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	cv, err := h.store.Get(c.Request.Context(), c.Param("id"), identity.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFound(c, msgCVNotFound)
			return
		}
		Internal(c, "failed to get cv for preview", err)
		return
	}

	content, err := resume.Decode(cv.Content)
	if err != nil {
		Internal(c, "stored cv content is unreadable", err)
		return
	}

	templateID := strings.TrimSpace(c.Query("template"))
	if templateID == "" && cv.TemplateID != nil {
		templateID = *cv.TemplateID
	}
	h.writePage(c, resume.Normalize(content), templateID)
}

// POST /preview
// 预览尚未保存的内容；只要求结构可解析，不做完整校验。
func (h *PreviewHandler) PreviewDraft(c *gin.Context) {
	if _, ok := middleware.IdentityFromContext(c); !ok {
		AbortUnauthorized(c)
		return
	}

	var req previewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ValidationFailed(c, []resume.Violation{{Path: "body", Message: "Request body must be a JSON object"}})
		return
	}
	content, err := resume.Decode(req.Content)
	if err != nil {
		var verr *resume.ValidationError
		if errors.As(err, &verr) {
			ValidationFailed(c, verr.Violations)
			return
		}
		ValidationFailed(c, []resume.Violation{{Path: "content", Message: err.Error()}})
		return
	}
	h.writePage(c, resume.Normalize(content), req.TemplateID)
}

func (h *PreviewHandler) writePage(c *gin.Context, content resume.Content, templateID string) {
	var buf bytes.Buffer
	if err := render.WriteHTML(&buf, render.Render(content, templateID)); err != nil {
		Internal(c, "failed to render cv", err)
		return
	}
	c.Data(http.StatusOK, htmlContentType, buf.Bytes())
}
