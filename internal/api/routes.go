package api

import (
	"github.com/gin-gonic/gin"

	"cvforge/internal/api/middleware"
	"cvforge/internal/auth"
	"cvforge/internal/store"
)

// Dependencies 汇总路由所需的协作者。Previews 可以为 nil。
type Dependencies struct {
	CVs       store.CVStore
	Users     UserMirror
	Templates TemplateCatalog
	Previews  PreviewSigner
	Verifier  auth.Verifier
}

// RegisterRoutes 注册业务路由。模板目录公开，其余接口均需 Bearer 令牌。
func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	cvHandler := NewCVHandler(deps.CVs)
	previewHandler := NewPreviewHandler(deps.CVs)
	userHandler := NewUserHandler(deps.Users)
	templateHandler := NewTemplateHandler(deps.Templates, deps.Previews)
	authMiddleware := middleware.AuthMiddleware(deps.Verifier)

	templateGroup := router.Group("/templates")
	{
		templateGroup.GET("", templateHandler.ListTemplates)
		templateGroup.GET("/:id", templateHandler.GetTemplate)
	}

	router.GET("/me", authMiddleware, userHandler.Me)
	router.POST("/preview", authMiddleware, previewHandler.PreviewDraft)

	cvGroup := router.Group("/cvs")
	cvGroup.Use(authMiddleware)
	{
		cvGroup.GET("", cvHandler.ListCVs)
		cvGroup.POST("", cvHandler.CreateCV)
		cvGroup.GET("/:id", cvHandler.GetCV)
		cvGroup.PUT("/:id", cvHandler.UpdateCV)
		cvGroup.DELETE("/:id", cvHandler.DeleteCV)
		cvGroup.GET("/:id/preview", previewHandler.PreviewCV)
	}
}
