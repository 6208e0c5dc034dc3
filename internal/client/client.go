// Package client is a typed HTTP client for the CV resource API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cvforge/internal/resume"
)

var (
	// ErrUnauthorized is returned when the server rejects the bearer token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound is returned when the document is absent or owned by someone else.
	ErrNotFound = errors.New("cv not found")
)

// StatusError 表示无法归类的非 2xx 响应。
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("cv api status %d", e.Code)
	}
	return fmt.Sprintf("cv api status %d: %s", e.Code, e.Message)
}

// CV mirrors the document representation returned by the API.
type CV struct {
	ID         string         `json:"id"`
	UserID     string         `json:"userId"`
	TemplateID *string        `json:"templateId"`
	Title      string         `json:"title"`
	Content    resume.Content `json:"content"`
	IsDraft    bool           `json:"isDraft"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

type CreateCVRequest struct {
	Title      string         `json:"title"`
	Content    resume.Content `json:"content"`
	TemplateID *string        `json:"templateId,omitempty"`
}

// UpdateCVRequest 中为 nil 的字段不会发送，服务端保持原值。
// ClearTemplate 在 TemplateID 为 nil 时发送 "templateId": null，清除已保存的模板。
type UpdateCVRequest struct {
	Title         *string         `json:"title,omitempty"`
	Content       *resume.Content `json:"content,omitempty"`
	TemplateID    *string         `json:"templateId,omitempty"`
	IsDraft       *bool           `json:"isDraft,omitempty"`
	ClearTemplate bool            `json:"-"`
}

func (r UpdateCVRequest) MarshalJSON() ([]byte, error) {
	type plain UpdateCVRequest
	if !r.ClearTemplate || r.TemplateID != nil {
		return json.Marshal(plain(r))
	}
	return json.Marshal(struct {
		plain
		TemplateID *string `json:"templateId"`
	}{plain: plain(r)})
}

// Client talks to the API on behalf of one caller.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New 构造客户端；httpClient 为 nil 时使用 15 秒超时的默认客户端。
func New(baseURL, token string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("cv api base url missing")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse cv api base url: %w", err)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: baseURL, token: token, http: httpClient}, nil
}

func (c *Client) List(ctx context.Context) ([]CV, error) {
	var out []CV
	if err := c.do(ctx, http.MethodGet, "/cvs", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []CV{}
	}
	return out, nil
}

func (c *Client) Create(ctx context.Context, req CreateCVRequest) (*CV, error) {
	var out CV
	if err := c.do(ctx, http.MethodPost, "/cvs", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Get(ctx context.Context, id string) (*CV, error) {
	var out CV
	if err := c.do(ctx, http.MethodGet, "/cvs/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Update(ctx context.Context, id string, req UpdateCVRequest) (*CV, error) {
	var out CV
	if err := c.do(ctx, http.MethodPut, "/cvs/"+url.PathEscape(id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/cvs/"+url.PathEscape(id), nil, nil)
}

type errorBody struct {
	Error   string             `json:"error"`
	Details []resume.Violation `json:"details"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	var body errorBody
	_ = json.Unmarshal(raw, &body)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadRequest:
		if len(body.Details) > 0 {
			return &resume.ValidationError{Violations: body.Details}
		}
	}

	msg := body.Error
	if msg == "" {
		msg = strings.TrimSpace(string(raw))
	}
	return &StatusError{Code: resp.StatusCode, Message: msg}
}
