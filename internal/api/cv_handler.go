package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"cvforge/internal/api/middleware"
	"cvforge/internal/database"
	"cvforge/internal/metrics"
	"cvforge/internal/resume"
	"cvforge/internal/store"
)

// CVHandler 负责简历文档的增删改查。所有操作都按 (id, 当前用户) 限定范围。
type CVHandler struct {
	store store.CVStore
}

func NewCVHandler(cvs store.CVStore) *CVHandler {
	return &CVHandler{store: cvs}
}

type createCVRequest struct {
	Title      string          `json:"title"`
	Content    json.RawMessage `json:"content"`
	TemplateID *string         `json:"templateId"`
}

type updateCVRequest struct {
	Title      *string         `json:"title"`
	Content    json.RawMessage `json:"content"`
	TemplateID optionalString  `json:"templateId"`
	IsDraft    *bool           `json:"isDraft"`
}

// optionalString 区分字段缺失与显式 null。
type optionalString struct {
	Set   bool
	Value *string
}

func (o *optionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

type cvResponse struct {
	ID         string         `json:"id"`
	UserID     string         `json:"userId"`
	TemplateID *string        `json:"templateId"`
	Title      string         `json:"title"`
	Content    datatypes.JSON `json:"content"`
	IsDraft    bool           `json:"isDraft"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

func newCVResponse(cv database.CV) cvResponse {
	return cvResponse{
		ID:         cv.ID,
		UserID:     cv.UserID,
		TemplateID: cv.TemplateID,
		Title:      cv.Title,
		Content:    cv.Content,
		IsDraft:    cv.IsDraft,
		CreatedAt:  cv.CreatedAt,
		UpdatedAt:  cv.UpdatedAt,
	}
}

// GET /cvs
func (h *CVHandler) ListCVs(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	cvs, err := h.store.List(c.Request.Context(), identity.UserID)
	if err != nil {
		metrics.RecordCVOperation("list", metrics.OutcomeError)
		Internal(c, "failed to list cvs", err)
		return
	}
	metrics.RecordCVOperation("list", metrics.OutcomeOK)

	items := make([]cvResponse, 0, len(cvs))
	for _, cv := range cvs {
		items = append(items, newCVResponse(cv))
	}
	c.JSON(http.StatusOK, items)
}

// POST /cvs
// 新建文档总是草稿，忽略请求中的 isDraft。
func (h *CVHandler) CreateCV(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	var req createCVRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ValidationFailed(c, []resume.Violation{{Path: "body", Message: "Request body must be a JSON object"}})
		return
	}

	var violations []resume.Violation
	title := strings.TrimSpace(req.Title)
	if title == "" {
		violations = append(violations, resume.Violation{Path: "title", Message: "Title is required"})
	}
	content, contentViolations := validateContent(req.Content)
	violations = append(violations, contentViolations...)
	if len(violations) > 0 {
		metrics.RecordCVOperation("create", metrics.OutcomeInvalid)
		ValidationFailed(c, violations)
		return
	}

	cv, err := h.store.Create(c.Request.Context(), identity.UserID, store.NewCV{
		Title:      title,
		Content:    content,
		TemplateID: req.TemplateID,
		IsDraft:    true,
	})
	if err != nil {
		metrics.RecordCVOperation("create", metrics.OutcomeError)
		Internal(c, "failed to create cv", err)
		return
	}
	metrics.RecordCVOperation("create", metrics.OutcomeOK)

	c.JSON(http.StatusOK, newCVResponse(*cv))
}

// GET /cvs/:id
func (h *CVHandler) GetCV(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	cv, err := h.store.Get(c.Request.Context(), c.Param("id"), identity.UserID)
	if err != nil {
		h.writeStoreError(c, "get", err)
		return
	}
	metrics.RecordCVOperation("get", metrics.OutcomeOK)

	c.JSON(http.StatusOK, newCVResponse(*cv))
}

// PUT /cvs/:id
// 只更新请求中出现的字段；updatedAt 总会刷新。
func (h *CVHandler) UpdateCV(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	var req updateCVRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ValidationFailed(c, []resume.Violation{{Path: "body", Message: "Request body must be a JSON object"}})
		return
	}

	var (
		patch      store.Patch
		violations []resume.Violation
	)
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			violations = append(violations, resume.Violation{Path: "title", Message: "Title is required"})
		}
		patch.Title = &title
	}
	if req.Content != nil {
		content, contentViolations := validateContent(req.Content)
		violations = append(violations, contentViolations...)
		patch.Content = content
	}
	if len(violations) > 0 {
		metrics.RecordCVOperation("update", metrics.OutcomeInvalid)
		ValidationFailed(c, violations)
		return
	}
	if req.TemplateID.Set {
		patch.TemplateSet = true
		patch.TemplateID = req.TemplateID.Value
	}
	patch.IsDraft = req.IsDraft

	cv, err := h.store.Update(c.Request.Context(), c.Param("id"), identity.UserID, patch)
	if err != nil {
		h.writeStoreError(c, "update", err)
		return
	}
	metrics.RecordCVOperation("update", metrics.OutcomeOK)

	c.JSON(http.StatusOK, newCVResponse(*cv))
}

// DELETE /cvs/:id
// 幂等：文档不存在或不属于当前用户时同样返回成功。
func (h *CVHandler) DeleteCV(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	if err := h.store.Delete(c.Request.Context(), c.Param("id"), identity.UserID); err != nil {
		metrics.RecordCVOperation("delete", metrics.OutcomeError)
		Internal(c, "failed to delete cv", err)
		return
	}
	metrics.RecordCVOperation("delete", metrics.OutcomeOK)

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *CVHandler) writeStoreError(c *gin.Context, op string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		metrics.RecordCVOperation(op, metrics.OutcomeNotFound)
		NotFound(c, msgCVNotFound)
		return
	}
	metrics.RecordCVOperation(op, metrics.OutcomeError)
	Internal(c, "failed to "+op+" cv", err)
}

// validateContent is the only gate between request bodies and the store.
// Valid content is stored as sent; only absent list sections are filled in as [].
func validateContent(raw json.RawMessage) (datatypes.JSON, []resume.Violation) {
	if _, err := resume.DecodeAndValidate(raw); err != nil {
		var verr *resume.ValidationError
		if errors.As(err, &verr) {
			return nil, verr.Violations
		}
		return nil, []resume.Violation{{Path: "content", Message: err.Error()}}
	}

	stored, err := resume.FillMissingSections(raw)
	if err != nil {
		return nil, []resume.Violation{{Path: "content", Message: "Content must be a JSON object"}}
	}
	return datatypes.JSON(stored), nil
}
