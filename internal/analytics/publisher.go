// Package analytics publishes "save processed" events over NATS with
// OpenTelemetry trace propagation.
package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"

	"x4map/internal/api"
	"x4map/internal/log"
)

// Event describes one finished save-file parse
type Event struct {
	Success      bool       `json:"success"`
	ProcessingMs int64      `json:"processing_ms"`
	FileBytes    int64      `json:"file_bytes"`
	Stats        *api.Stats `json:"stats,omitempty"`
	Error        string     `json:"error,omitempty"`
	Timestamp    time.Time  `json:"timestamp"`
}

// NewEvent builds the event for a parse that took elapsed; stats is nil on failure
func NewEvent(stats *api.Stats, fileBytes int64, elapsed time.Duration, err error) Event {
	ev := Event{
		Success:      err == nil,
		ProcessingMs: elapsed.Milliseconds(),
		FileBytes:    fileBytes,
		Stats:        stats,
		Timestamp:    time.Now().UTC(),
	}
	if err != nil {
		ev.Error = err.Error()
		ev.Stats = nil
	}
	return ev
}

// Publisher sends events to a NATS subject. A nil *Publisher is valid and
// publishes nothing.
type Publisher struct {
	nc      *nats.Conn
	subject string
	owned   bool
	logger  *slog.Logger
}

// Connect dials url and returns a publisher owning the connection
func Connect(url, subject string) (*Publisher, error) {
	nc, err := nats.Connect(url, nats.Name("x4map"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}
	p := NewPublisher(nc, subject)
	p.owned = true
	return p, nil
}

// NewPublisher wraps an existing connection
func NewPublisher(nc *nats.Conn, subject string) *Publisher {
	return &Publisher{nc: nc, subject: subject, logger: log.With("analytics")}
}

// SaveProcessed publishes ev. Trace context from ctx is injected into the
// message headers.
func (p *Publisher) SaveProcessed(ctx context.Context, ev Event) error {
	if p == nil || p.nc == nil {
		return nil
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	msg := &nats.Msg{Subject: p.subject, Data: data}
	otel.GetTextMapPropagator().Inject(ctx, (*natsHeaderCarrier)(msg))
	if err := p.nc.PublishMsg(msg); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", p.subject, err)
	}
	p.logger.Debug("save processed event published", "subject", p.subject, "success", ev.Success)
	return nil
}

// Flush waits until the server has received every published event
func (p *Publisher) Flush(timeout time.Duration) error {
	if p == nil || p.nc == nil {
		return nil
	}
	return p.nc.FlushTimeout(timeout)
}

// Close drains and closes the connection when the publisher owns it
func (p *Publisher) Close() error {
	if p == nil || p.nc == nil || !p.owned {
		return nil
	}
	return p.nc.Drain()
}

// Subscribe registers handler for events on subject. Trace context is
// extracted from the message headers; malformed messages are dropped.
func Subscribe(nc *nats.Conn, subject string, handler func(context.Context, Event)) (*nats.Subscription, error) {
	return nc.Subscribe(subject, func(msg *nats.Msg) {
		var ev Event
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			return
		}
		ctx := otel.GetTextMapPropagator().Extract(context.Background(), (*natsHeaderCarrier)(msg))
		handler(ctx, ev)
	})
}
