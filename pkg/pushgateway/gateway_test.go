package pushgateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
)

func TestMockGateway_ReportsFailingRecipients(t *testing.T) {
	g := NewMockGateway(NameMock, "c")
	report, err := g.Send(context.Background(), Message{Title: "Hi"}, []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if report.SentCount != 2 || report.FailedCount != 1 {
		t.Errorf("report = %+v, want 2 sent 1 failed", report)
	}
	if got := g.Delivered(); len(got) != 2 {
		t.Errorf("Delivered() = %v", got)
	}

	g.SetFailing("a")
	report, _ = g.Send(context.Background(), Message{Title: "Hi"}, []string{"a", "b"})
	if report.SentCount != 1 || report.FailedCount != 1 {
		t.Errorf("report after SetFailing = %+v", report)
	}

	g.SetDown(true)
	if _, err := g.Send(context.Background(), Message{}, []string{"a"}); !errors.Is(err, ErrGatewayUnavailable) {
		t.Errorf("Send() on down gateway error = %v", err)
	}
}

func TestHTTPGateway_Send(t *testing.T) {
	var got sendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/notifications/send" || r.Header.Get("Authorization") != "Bearer key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(sendResponse{SentCount: len(got.TargetCustomerIDs) - 1, FailedCount: 1})
	}))
	defer srv.Close()

	g := NewHTTPGateway(srv.URL+"/", "key", time.Second)
	report, err := g.Send(context.Background(), Message{Title: "Deal", Body: "20% off", Type: "PROMOTION"}, []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if report.SentCount != 2 || report.FailedCount != 1 || report.BatchID == "" {
		t.Errorf("report = %+v", report)
	}
	if got.Title != "Deal" || got.Type != "PROMOTION" || len(got.TargetCustomerIDs) != 3 {
		t.Errorf("request body = %+v", got)
	}
}

func TestHTTPGateway_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	g := NewHTTPGateway(srv.URL, "", time.Second)
	if _, err := g.Send(context.Background(), Message{}, []string{"a"}); err == nil {
		t.Fatal("Send() should fail on 502")
	}
}

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return w.err
}

func (w *fakeWriter) Close() error { return nil }

func TestKafkaGateway_Send(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantSent   int
		wantFailed int
		wantErr    bool
	}{
		{"all written", nil, 3, 0, false},
		{"partial", kafka.WriteErrors{nil, errors.New("leader not available"), nil}, 2, 1, false},
		{"broker down", errors.New("dial tcp: connection refused"), 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &fakeWriter{err: tt.err}
			g := &KafkaGateway{writer: w}
			report, err := g.Send(context.Background(), Message{Title: "t"}, []string{"a", "b", "c"})
			if (err != nil) != tt.wantErr {
				t.Fatalf("Send() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if report.SentCount != tt.wantSent || report.FailedCount != tt.wantFailed {
				t.Errorf("report = %+v", report)
			}
			if string(w.msgs[1].Key) != "b" {
				t.Errorf("message key = %q, want b", w.msgs[1].Key)
			}
			var ev pushEvent
			if err := json.Unmarshal(w.msgs[0].Value, &ev); err != nil || ev.CustomerID != "a" || ev.BatchID != report.BatchID {
				t.Errorf("event = %+v, err = %v", ev, err)
			}
		})
	}
}
