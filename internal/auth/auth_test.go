package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoteVerifierAcceptsKnownToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/user", r.URL.Path)
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"msg":"invalid JWT"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"user-1","email":"jane@x.io","user_metadata":{"full_name":"Jane Doe","avatar_url":"https://cdn.x.io/a.png"}}`))
	}))
	defer srv.Close()

	v, err := NewRemoteVerifier(srv.URL+"/", "anon-key", time.Second)
	require.NoError(t, err)

	id, err := v.Verify(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "user-1", id.UserID)
	assert.Equal(t, "jane@x.io", id.Email)
	assert.Equal(t, "Jane", id.FirstName)
	assert.Equal(t, "Doe", id.LastName)
	assert.Equal(t, "https://cdn.x.io/a.png", id.AvatarURL)
	assert.Equal(t, "Jane Doe", id.DisplayName())

	_, err = v.Verify(context.Background(), "bad")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = v.Verify(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRemoteVerifierServerErrorIsNotUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	v, err := NewRemoteVerifier(srv.URL, "", time.Second)
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), "token")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnauthorized))
}

func TestRemoteVerifierRejectsResponseWithoutID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"email":"ghost@x.io"}`))
	}))
	defer srv.Close()

	v, err := NewRemoteVerifier(srv.URL, "", time.Second)
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), "token")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestNewRemoteVerifierRequiresURL(t *testing.T) {
	_, err := NewRemoteVerifier(" ", "", 0)
	assert.Error(t, err)
}

func signHS256(t *testing.T, secret []byte, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return signed
}

func TestJWTVerifierHS256(t *testing.T) {
	secret := []byte("super-secret")
	v, err := NewHS256Verifier(secret)
	require.NoError(t, err)

	token := signHS256(t, secret, jwt.MapClaims{
		"sub":           "user-7",
		"email":         "sam@x.io",
		"role":          "authenticated",
		"exp":           time.Now().Add(time.Hour).Unix(),
		"user_metadata": map[string]any{"first_name": "Sam", "last_name": "Lee"},
	})
	id, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, &Identity{UserID: "user-7", Email: "sam@x.io", FirstName: "Sam", LastName: "Lee"}, id)
}

func TestJWTVerifierRejections(t *testing.T) {
	secret := []byte("super-secret")
	v, err := NewHS256Verifier(secret)
	require.NoError(t, err)

	future := time.Now().Add(time.Hour).Unix()
	cases := map[string]string{
		"expired":      signHS256(t, secret, jwt.MapClaims{"sub": "u", "exp": time.Now().Add(-time.Hour).Unix()}),
		"no expiry":    signHS256(t, secret, jwt.MapClaims{"sub": "u"}),
		"wrong secret": signHS256(t, []byte("other"), jwt.MapClaims{"sub": "u", "exp": future}),
		"no subject":   signHS256(t, secret, jwt.MapClaims{"exp": future}),
		"anonymous":    signHS256(t, secret, jwt.MapClaims{"sub": "u", "role": "anon", "exp": future}),
		"garbage":      "not.a.jwt",
		"empty":        "",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := v.Verify(context.Background(), token)
			assert.ErrorIs(t, err, ErrUnauthorized)
		})
	}
}

func TestJWTVerifierRS256(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})

	v, err := NewRS256Verifier(pubPEM)
	require.NoError(t, err)

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"sub": "rsa-user",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(key)
	require.NoError(t, err)

	id, err := v.Verify(context.Background(), signed)
	require.NoError(t, err)
	assert.Equal(t, "rsa-user", id.UserID)

	// An HS256 token must not pass an RS256 verifier.
	hs := signHS256(t, []byte("x"), jwt.MapClaims{"sub": "u", "exp": time.Now().Add(time.Hour).Unix()})
	_, err = v.Verify(context.Background(), hs)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

type fakeCache struct {
	values  map[string][]byte
	ttls    map[string]time.Duration
	failGet bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (c *fakeCache) Get(_ context.Context, key string) *redis.StringCmd {
	if c.failGet {
		return redis.NewStringResult("", errors.New("connection refused"))
	}
	v, ok := c.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(string(v), nil)
}

func (c *fakeCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	c.values[key] = value.([]byte)
	c.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

type countingVerifier struct {
	calls int
	err   error
}

func (v *countingVerifier) Verify(_ context.Context, token string) (*Identity, error) {
	v.calls++
	if v.err != nil {
		return nil, v.err
	}
	return &Identity{UserID: "user-" + token, Email: token + "@x.io"}, nil
}

func TestCachedVerifierServesFromCache(t *testing.T) {
	inner := &countingVerifier{}
	cache := newFakeCache()
	v := NewCachedVerifier(inner, cache, 30*time.Second, nil)

	for i := 0; i < 3; i++ {
		id, err := v.Verify(context.Background(), "abc")
		require.NoError(t, err)
		assert.Equal(t, "user-abc", id.UserID)
	}
	assert.Equal(t, 1, inner.calls)

	key := identityCacheKey("abc")
	assert.Len(t, key, len(identityCachePrefix)+64)
	assert.Equal(t, 30*time.Second, cache.ttls[key])
}

func TestCachedVerifierNeverCachesRejections(t *testing.T) {
	inner := &countingVerifier{err: ErrUnauthorized}
	cache := newFakeCache()
	v := NewCachedVerifier(inner, cache, time.Minute, nil)

	for i := 0; i < 2; i++ {
		_, err := v.Verify(context.Background(), "bad")
		assert.ErrorIs(t, err, ErrUnauthorized)
	}
	assert.Equal(t, 2, inner.calls)
	assert.Empty(t, cache.values)
}

func TestCachedVerifierFallsThroughOnCacheFailure(t *testing.T) {
	inner := &countingVerifier{}
	cache := newFakeCache()
	cache.failGet = true
	v := NewCachedVerifier(inner, cache, time.Minute, nil)

	id, err := v.Verify(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "user-abc", id.UserID)
	assert.Equal(t, 1, inner.calls)
}

func TestCachedVerifierDisabledWithZeroTTL(t *testing.T) {
	inner := &countingVerifier{}
	v := NewCachedVerifier(inner, newFakeCache(), 0, nil)

	for i := 0; i < 2; i++ {
		_, err := v.Verify(context.Background(), "abc")
		require.NoError(t, err)
	}
	assert.Equal(t, 2, inner.calls)
}

func TestDisplayNameFallsBackToEmail(t *testing.T) {
	assert.Equal(t, "a@x.io", Identity{Email: "a@x.io"}.DisplayName())
}
