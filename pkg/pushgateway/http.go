package pushgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// HTTPGateway posts batches to a notification service over JSON/HTTP
type HTTPGateway struct {
	BaseURL    string
	APIKey     string
	httpClient *http.Client
}

// NewHTTPGateway creates a new HTTPGateway
func NewHTTPGateway(baseURL, apiKey string, timeout time.Duration) *HTTPGateway {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPGateway{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Name returns the gateway name
func (g *HTTPGateway) Name() string { return NameHTTP }

type sendRequest struct {
	Title             string   `json:"title"`
	Body              string   `json:"body"`
	Type              string   `json:"type"`
	TargetCustomerIDs []string `json:"targetCustomerIds"`
}

type sendResponse struct {
	SentCount   int `json:"sentCount"`
	FailedCount int `json:"failedCount"`
}

// Send posts one batch and returns the counts reported by the service
func (g *HTTPGateway) Send(ctx context.Context, msg Message, recipientIDs []string) (*DeliveryReport, error) {
	if g.BaseURL == "" {
		return nil, fmt.Errorf("%w: http gateway has no base url", ErrGatewayUnavailable)
	}
	batchID := uuid.NewString()

	jsonBody, err := json.Marshal(sendRequest{
		Title:             msg.Title,
		Body:              msg.Body,
		Type:              msg.Type,
		TargetCustomerIDs: recipientIDs,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+"/notifications/send", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", batchID)
	if g.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.APIKey)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var out sendResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &DeliveryReport{BatchID: batchID, SentCount: out.SentCount, FailedCount: out.FailedCount}, nil
}
