package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"bank-chat-client/internal/types"
)

// maxReplyBytes caps how much of a reply body is read.
const maxReplyBytes = 8 << 20

// HTTPClient posts messages to a chat endpoint.
type HTTPClient struct {
	httpClient *http.Client
	endpoint   string
	logger     *zap.Logger
}

func NewHTTPClient(endpoint string, timeout time.Duration, logger *zap.Logger) *HTTPClient {
	return &HTTPClient{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   endpoint,
		logger:     logger,
	}
}

func (c *HTTPClient) Endpoint() string {
	return c.endpoint
}

func (c *HTTPClient) do(ctx context.Context, method string, sc SessionContext, body io.Reader) (*http.Response, string, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint, body)
	if err != nil {
		return nil, "", err
	}
	correlationID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Correlation-ID", correlationID)
	if sc.CustomerID != "" {
		req.Header.Set("X-Customer-ID", sc.CustomerID)
	}
	resp, err := c.httpClient.Do(req)
	return resp, correlationID, err
}

func (c *HTTPClient) SendMessage(ctx context.Context, text string, sc SessionContext) (*Reply, error) {
	payload, err := json.Marshal(types.ChatRequest{MessageText: text})
	if err != nil {
		return nil, err
	}
	start := time.Now()
	resp, correlationID, err := c.do(ctx, http.MethodPost, sc, bytes.NewReader(payload))
	if err != nil {
		c.logger.Warn("chat request failed",
			zap.String("correlation_id", correlationID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return nil, fmt.Errorf("read reply: %w", err)
	}
	c.logger.Info("chat reply",
		zap.String("correlation_id", correlationID),
		zap.String("customer_id", sc.CustomerID),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(b)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return &Reply{Status: resp.StatusCode, Body: b}, nil
}
