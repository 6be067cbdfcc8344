// Package client is a small HTTP client for the chat API. It is meant for
// services and tools that act on behalf of a single user.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/s21platform/exchange-chat-service/pkg/api"
)

const headerUserUUID = "X-User-Uuid"

type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("chat api: status %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL    string
	userID     string
	httpClient *http.Client
}

type Option func(c *Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func New(baseURL, userID string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		userID:     userID,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) FetchThreads(ctx context.Context) ([]api.Thread, error) {
	var resp api.GetThreadsResponse
	if err := c.do(ctx, http.MethodGet, "/api/chat/threads", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch threads: %w", err)
	}
	return resp.Threads, nil
}

func (c *Client) FetchMessages(ctx context.Context, conversationID string) ([]api.Message, error) {
	var resp api.GetMessagesResponse
	path := fmt.Sprintf("/api/chat/conversations/%s/messages", url.PathEscape(conversationID))
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}
	return resp.Messages, nil
}

func (c *Client) SendMessage(ctx context.Context, conversationID, text string) (api.Message, error) {
	var msg api.Message
	path := fmt.Sprintf("/api/chat/conversations/%s/messages", url.PathEscape(conversationID))
	if err := c.do(ctx, http.MethodPost, path, api.SendMessageRequest{Text: text}, &msg); err != nil {
		return api.Message{}, fmt.Errorf("failed to send message: %w", err)
	}
	return msg, nil
}

func (c *Client) MarkRead(ctx context.Context, conversationID string) error {
	path := fmt.Sprintf("/api/chat/conversations/%s/read", url.PathEscape(conversationID))
	if err := c.do(ctx, http.MethodPost, path, nil, nil); err != nil {
		return fmt.Errorf("failed to mark conversation as read: %w", err)
	}
	return nil
}

func (c *Client) GetUnreadCount(ctx context.Context) (int, error) {
	var resp api.GetUnreadCountResponse
	if err := c.do(ctx, http.MethodGet, "/api/chat/unread", nil, &resp); err != nil {
		return 0, fmt.Errorf("failed to get unread count: %w", err)
	}
	return resp.Count, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set(headerUserUUID, c.userID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errBody api.Error
		if err := json.NewDecoder(resp.Body).Decode(&errBody); err == nil {
			apiErr.Message = errBody.Error
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %v", err)
	}
	return nil
}
