// Package pushgateway delivers push notifications to customer devices
// through interchangeable gateways.
package pushgateway

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Gateway names as stored in system settings
const (
	NameMock  = "MOCK"
	NameHTTP  = "HTTP"
	NameKafka = "KAFKA"
)

// ErrGatewayUnavailable is returned when a gateway cannot take a batch at all
var ErrGatewayUnavailable = errors.New("push gateway unavailable")

// Message is the payload delivered to every recipient of a batch
type Message struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Type  string `json:"type"`
}

// DeliveryReport is the per-batch outcome a gateway reports
type DeliveryReport struct {
	BatchID     string `json:"batchId"`
	SentCount   int    `json:"sentCount"`
	FailedCount int    `json:"failedCount"`
}

// Gateway represents a push notification gateway. Send returns an error only
// when the whole batch could not be handed over; per-recipient failures are
// reported in the DeliveryReport.
type Gateway interface {
	Name() string
	Send(ctx context.Context, msg Message, recipientIDs []string) (*DeliveryReport, error)
}

// MockGateway simulates delivery. Recipients listed in failing are reported
// as failed; when down is set every Send errors.
type MockGateway struct {
	name string

	mu      sync.Mutex
	failing map[string]bool
	down    bool
	sent    []string
}

// NewMockGateway creates a new mock gateway
func NewMockGateway(name string, failingIDs ...string) *MockGateway {
	failing := make(map[string]bool, len(failingIDs))
	for _, id := range failingIDs {
		failing[id] = true
	}
	return &MockGateway{name: name, failing: failing}
}

// Name returns the gateway name
func (g *MockGateway) Name() string { return g.name }

// SetDown makes every subsequent Send fail
func (g *MockGateway) SetDown(down bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.down = down
}

// SetFailing marks more recipients as failed
func (g *MockGateway) SetFailing(ids ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, id := range ids {
		g.failing[id] = true
	}
}

// Delivered returns the recipient ids delivered so far
func (g *MockGateway) Delivered() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.sent...)
}

// Send simulates delivery of one batch
func (g *MockGateway) Send(ctx context.Context, msg Message, recipientIDs []string) (*DeliveryReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.down {
		return nil, fmt.Errorf("%w: %s is down", ErrGatewayUnavailable, g.name)
	}
	report := &DeliveryReport{BatchID: fmt.Sprintf("%s-MOCK-%s", g.name, uuid.NewString())}
	for _, id := range recipientIDs {
		if g.failing[id] {
			report.FailedCount++
			continue
		}
		report.SentCount++
		g.sent = append(g.sent, id)
	}
	return report, nil
}
