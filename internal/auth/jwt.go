package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// identityClaims 对应身份服务签发的访问令牌字段。
type identityClaims struct {
	Email        string         `json:"email"`
	Role         string         `json:"role"`
	UserMetadata map[string]any `json:"user_metadata"`
	jwt.RegisteredClaims
}

// JWTVerifier validates access tokens locally with the provider's signing key.
type JWTVerifier struct {
	method jwt.SigningMethod
	key    any
}

// NewHS256Verifier 使用共享密钥校验 HS256 令牌。
func NewHS256Verifier(secret []byte) (*JWTVerifier, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwt secret is required")
	}
	return &JWTVerifier{method: jwt.SigningMethodHS256, key: secret}, nil
}

// NewRS256Verifier 解析 PEM 公钥并校验 RS256 令牌。
func NewRS256Verifier(publicKeyPEM []byte) (*JWTVerifier, error) {
	if len(publicKeyPEM) == 0 {
		return nil, errors.New("public key pem is required")
	}
	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("parse rsa public key: %w", err)
	}
	return &JWTVerifier{method: jwt.SigningMethodRS256, key: publicKey}, nil
}

func (v *JWTVerifier) Verify(_ context.Context, tokenString string) (*Identity, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, ErrUnauthorized
	}

	token, err := jwt.ParseWithClaims(tokenString, &identityClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != v.method.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return v.key, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: parse token: %v", ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(*identityClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token claims", ErrUnauthorized)
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, fmt.Errorf("%w: token without subject", ErrUnauthorized)
	}
	if claims.Role == "anon" {
		return nil, fmt.Errorf("%w: anonymous token", ErrUnauthorized)
	}

	return identityFromMetadata(claims.Subject, claims.Email, claims.UserMetadata), nil
}
