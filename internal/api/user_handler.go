package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cvforge/internal/api/middleware"
	"cvforge/internal/database"
)

// UserMirror keeps the local copy of identity-service users.
type UserMirror interface {
	Upsert(ctx context.Context, user database.User) (*database.User, error)
}

type UserHandler struct {
	users UserMirror
}

func NewUserHandler(users UserMirror) *UserHandler {
	return &UserHandler{users: users}
}

type userResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	AvatarURL   string    `json:"avatarUrl"`
	DisplayName string    `json:"displayName"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// GET /me
// 以身份服务返回的资料刷新本地镜像后返回。
func (h *UserHandler) Me(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	user, err := h.users.Upsert(c.Request.Context(), database.User{
		ID:        identity.UserID,
		Email:     identity.Email,
		FirstName: identity.FirstName,
		LastName:  identity.LastName,
		AvatarURL: identity.AvatarURL,
	})
	if err != nil {
		Internal(c, "failed to mirror user", err)
		return
	}

	c.JSON(http.StatusOK, userResponse{
		ID:          user.ID,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		AvatarURL:   user.AvatarURL,
		DisplayName: identity.DisplayName(),
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	})
}
