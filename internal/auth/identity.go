// Package auth resolves bearer credentials into caller identities.
package auth

import (
	"context"
	"errors"
	"strings"
)

// ErrUnauthorized marks a credential the identity provider rejected.
var ErrUnauthorized = errors.New("unauthorized")

// Identity 表示已认证的调用方。
type Identity struct {
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// DisplayName returns "first last" when known, falling back to the email.
func (i Identity) DisplayName() string {
	name := strings.TrimSpace(i.FirstName + " " + i.LastName)
	if name != "" {
		return name
	}
	return i.Email
}

// Verifier resolves an access token into an Identity.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// identityFromMetadata 从身份服务的 user_metadata 中提取展示字段。
func identityFromMetadata(userID, email string, meta map[string]any) *Identity {
	id := &Identity{UserID: userID, Email: email}
	id.FirstName = metaString(meta, "first_name", "firstName", "given_name")
	id.LastName = metaString(meta, "last_name", "lastName", "family_name")
	id.AvatarURL = metaString(meta, "avatar_url", "picture")

	if id.FirstName == "" && id.LastName == "" {
		full := metaString(meta, "full_name", "name")
		if first, last, ok := strings.Cut(full, " "); ok {
			id.FirstName, id.LastName = first, strings.TrimSpace(last)
		} else {
			id.FirstName = full
		}
	}
	return id
}

func metaString(meta map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := meta[k].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
