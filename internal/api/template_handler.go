package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cvforge/internal/api/middleware"
	"cvforge/internal/database"
	"cvforge/internal/storage"
	"cvforge/internal/store"
)

const previewURLTTL = 15 * time.Minute

// TemplateCatalog is the read side of the template table.
type TemplateCatalog interface {
	ListActive(ctx context.Context) ([]database.CVTemplate, error)
	Get(ctx context.Context, id string) (*database.CVTemplate, error)
}

// PreviewSigner turns bucket keys into temporary download links.
type PreviewSigner interface {
	GeneratePresignedURL(ctx context.Context, objectKey string, duration time.Duration) (string, error)
}

// TemplateHandler 提供只读的模板目录。
type TemplateHandler struct {
	catalog TemplateCatalog
	signer  PreviewSigner
}

// NewTemplateHandler 构造模板接口；signer 可以为 nil，此时预览地址原样返回。
func NewTemplateHandler(catalog TemplateCatalog, signer PreviewSigner) *TemplateHandler {
	return &TemplateHandler{catalog: catalog, signer: signer}
}

type templateResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PreviewURL  string    `json:"previewUrl"`
	Category    string    `json:"category"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

// GET /templates
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	templates, err := h.catalog.ListActive(c.Request.Context())
	if err != nil {
		Internal(c, "failed to list templates", err)
		return
	}

	items := make([]templateResponse, 0, len(templates))
	for _, t := range templates {
		items = append(items, h.newTemplateResponse(c, t))
	}
	c.JSON(http.StatusOK, items)
}

// GET /templates/:id
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	tpl, err := h.catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFound(c, msgTemplateNotFound)
			return
		}
		Internal(c, "failed to query template", err)
		return
	}
	c.JSON(http.StatusOK, h.newTemplateResponse(c, *tpl))
}

func (h *TemplateHandler) newTemplateResponse(c *gin.Context, t database.CVTemplate) templateResponse {
	return templateResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		PreviewURL:  h.previewURL(c, t.PreviewURL),
		Category:    t.Category,
		IsActive:    t.IsActive,
		CreatedAt:   t.CreatedAt,
	}
}

// previewURL 对存储桶中的对象键签名；签名失败时退回原始值，不影响目录展示。
func (h *TemplateHandler) previewURL(c *gin.Context, ref string) string {
	if h.signer == nil || !storage.IsObjectKey(ref) {
		return ref
	}
	signed, err := h.signer.GeneratePresignedURL(c.Request.Context(), ref, previewURLTTL)
	if err != nil {
		middleware.LoggerFromContext(c).Warn("presign template preview failed",
			slog.String("object_key", ref),
			slog.Any("error", err),
		)
		return ref
	}
	return signed
}
