package events

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/noah-isme/educollab-analytics/internal/observability"
)

// Event kinds, appended to the subject prefix.
const (
	KindActivity         = "activity"
	KindForumInteraction = "forum_interaction"
)

// Envelope is the message body sent to subscribers.
type Envelope struct {
	Kind       string      `json:"kind"`
	ID         string      `json:"id"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

// Publisher forwards recorded analytics events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, envelope Envelope) error
}

// Nop discards events. It is used when no broker is configured.
type Nop struct{}

// Publish does nothing.
func (Nop) Publish(context.Context, Envelope) error { return nil }

// NATSPublisher publishes envelopes as JSON on <prefix>.<kind>.
type NATSPublisher struct {
	conn   *nats.Conn
	prefix string
	logger zerolog.Logger
}

// ConnectNATS dials the broker at url.
func ConnectNATS(url, name string) (*nats.Conn, error) {
	if url == "" {
		return nil, fmt.Errorf("nats url must not be empty")
	}

	conn, err := nats.Connect(url, nats.Name(name), nats.MaxReconnects(-1))
	if err != nil {
		return nil, fmt.Errorf("unable to connect to nats: %w", err)
	}
	return conn, nil
}

// NewNATSPublisher constructs a publisher over an established connection.
func NewNATSPublisher(conn *nats.Conn, prefix string, logger zerolog.Logger) *NATSPublisher {
	prefix = strings.Trim(strings.TrimSpace(prefix), ".")
	if prefix == "" {
		prefix = "educollab.analytics"
	}
	return &NATSPublisher{
		conn:   conn,
		prefix: prefix,
		logger: logger.With().Str("component", "nats_publisher").Logger(),
	}
}

// Subject returns the subject used for kind.
func (p *NATSPublisher) Subject(kind string) string {
	return p.prefix + "." + kind
}

// Publish serialises the envelope and hands it to the connection's buffer.
func (p *NATSPublisher) Publish(_ context.Context, envelope Envelope) error {
	subject := p.Subject(envelope.Kind)

	body, err := json.Marshal(envelope)
	if err != nil {
		observability.EventsPublished().WithLabelValues(subject, "error").Inc()
		return fmt.Errorf("encode event: %w", err)
	}

	if err := p.conn.Publish(subject, body); err != nil {
		observability.EventsPublished().WithLabelValues(subject, "error").Inc()
		return fmt.Errorf("publish %s: %w", subject, err)
	}

	observability.EventsPublished().WithLabelValues(subject, "ok").Inc()
	p.logger.Debug().Str("subject", subject).Str("event_id", envelope.ID).Msg("analytics event published")
	return nil
}
