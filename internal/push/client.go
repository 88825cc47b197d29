package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Message is the payload the push gateway accepts.
type Message struct {
	To    string            `json:"to"`
	Title string            `json:"title"`
	Body  string            `json:"body,omitempty"`
	Data  map[string]string `json:"data,omitempty"`
	Badge int               `json:"badge,omitempty"`
}

// Client speaks to the third-party push gateway. There is no retry logic:
// delivery is best-effort and failures are the caller's to record.
type Client struct {
	httpClient *http.Client
	gatewayURL string
	logger     *slog.Logger
}

// NewClient creates a new push gateway client.
func NewClient(gatewayURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		gatewayURL: gatewayURL,
		logger:     logger,
	}
}

// Send posts one message to the gateway and returns an error on any non-2xx
// response.
func (c *Client) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal push message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.gatewayURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.Error("push send failed", "error", err, "duration_ms", duration.Milliseconds())
		return fmt.Errorf("push send failed: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Info("push_send", "status", resp.StatusCode, "duration_ms", duration.Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("push gateway returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}
	return nil
}
