// Package telegram provides a minimal Telegram Bot API client used to push
// new-request notifications to an operator chat. Uses raw HTTP calls (no SDK)
// to minimize external dependencies.
package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ldostudio/backend/internal/model"
)

const defaultBaseURL = "https://api.telegram.org"

// Client sends messages through a Telegram bot. Delivery is one-way: only
// success or failure is reported, nothing from the response is consumed
// beyond the ok flag.
type Client struct {
	token   string
	chatID  string
	baseURL string
	http    *http.Client
}

// NewClient creates a Client for the given bot token and chat id.
// Returns nil when the token or chat id is empty, which disables notifications.
func NewClient(token, chatID string) *Client {
	if token == "" || chatID == "" {
		return nil
	}
	return &Client{
		token:   token,
		chatID:  chatID,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

// NewClientWithBaseURL is NewClient with an overridable API endpoint, for tests.
func NewClientWithBaseURL(token, chatID, baseURL string) *Client {
	c := NewClient(token, chatID)
	if c != nil {
		c.baseURL = baseURL
	}
	return c
}

// apiResponse is the envelope every Bot API method returns.
type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// NotifyNewRequest posts a plain-text summary of the request to the
// configured chat. Implements service.Notifier.
func (c *Client) NotifyNewRequest(ctx context.Context, req *model.ClientRequest) error {
	var b strings.Builder
	fmt.Fprintf(&b, "New client request #%d\n", req.ID)
	fmt.Fprintf(&b, "Name: %s\n", req.Name)
	fmt.Fprintf(&b, "Contact: %s\n", req.Contact)
	if req.Category != "" {
		fmt.Fprintf(&b, "Category: %s\n", req.Category)
	}
	fmt.Fprintf(&b, "Message: %s", req.Message)
	return c.sendMessage(ctx, b.String())
}

// sendMessage calls the sendMessage Bot API method.
func (c *Client) sendMessage(ctx context.Context, text string) error {
	form := url.Values{}
	form.Set("chat_id", c.chatID)
	form.Set("text", text)

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.token)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("telegram request: %w", err)
	}
	defer resp.Body.Close()

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return fmt.Errorf("telegram response: %w", err)
	}
	if !apiResp.OK {
		return fmt.Errorf("telegram api error: %s", apiResp.Description)
	}
	return nil
}
