package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const defaultRequestTimeout = 10 * time.Second

// Sender delivers a single event. Satisfied by Client; faked in tests.
type Sender interface {
	Send(ctx context.Context, ev Event) error
}

// Client POSTs events to the notification service, authenticating with a
// short-lived HS256 bearer token per request (ZGW auth style).
type Client struct {
	baseURL  string
	clientID string
	secret   []byte
	http     *http.Client
	now      func() time.Time
}

type ClientOption func(*Client)

func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.http = h }
}

func WithNow(now func() time.Time) ClientOption {
	return func(c *Client) { c.now = now }
}

func NewClient(baseURL, clientID string, secret []byte, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:  baseURL,
		clientID: clientID,
		secret:   secret,
		http:     &http.Client{Timeout: defaultRequestTimeout},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send delivers one event. Any non-2xx response is an error; the caller
// decides whether to ledger the payload.
func (c *Client) Send(ctx context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/notificaties", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	token, err := c.bearerToken()
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Read a little of the body for the log line, then discard.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("notification service returned %d: %s", resp.StatusCode, snippet)
	}
	return nil
}

func (c *Client) bearerToken() (string, error) {
	now := c.now()
	claims := jwt.MapClaims{
		"iss":       c.clientID,
		"iat":       now.Unix(),
		"client_id": c.clientID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token.Header["client_identifier"] = c.clientID

	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign notification token: %w", err)
	}
	return signed, nil
}
