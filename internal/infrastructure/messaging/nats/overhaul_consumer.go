package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dreschagin/fleet-maintenance/pkg/logger"
	"github.com/nats-io/nats.go"
)

// SubjectOverhaulRequested carries overhaul sign-off commands from the
// maintenance planning system.
const SubjectOverhaulRequested = "maintenance.overhaul.requested"

// OverhaulCommand is the wire format of an overhaul sign-off.
type OverhaulCommand struct {
	ParameterID string    `json:"parameter_id"`
	SignedOffBy string    `json:"signed_off_by"`
	SignedOffAt time.Time `json:"signed_off_at"`
}

// OverhaulCommandHandler processes one sign-off. A returned error leaves the
// message unacknowledged so JetStream redelivers it.
type OverhaulCommandHandler func(ctx context.Context, parameterID string) error

// OverhaulCommandConsumer consumes overhaul sign-offs from NATS. Commands are
// rare compared to hour readings, so no throttling is applied.
type OverhaulCommandConsumer struct {
	nc      *nats.Conn
	js      nats.JetStreamContext
	sub     *nats.Subscription
	handler OverhaulCommandHandler
	logger  *logger.Logger
}

// NewOverhaulCommandConsumer creates a consumer with its own NATS connection.
func NewOverhaulCommandConsumer(natsURL string, handler OverhaulCommandHandler, log *logger.Logger) (*OverhaulCommandConsumer, error) {
	nc, err := nats.Connect(natsURL,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(10),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to get JetStream context: %w", err)
	}

	return &OverhaulCommandConsumer{
		nc:      nc,
		js:      js,
		handler: handler,
		logger:  log,
	}, nil
}

// Start opens a durable subscription on the maintenance stream.
// The stream itself is ensured by the publisher at startup.
func (c *OverhaulCommandConsumer) Start(ctx context.Context) error {
	sub, err := c.js.Subscribe(SubjectOverhaulRequested,
		func(msg *nats.Msg) {
			c.handleMessage(ctx, msg)
		},
		nats.Durable("fleet-maintenance-overhaul"),
		nats.ManualAck(),
		nats.AckWait(30*time.Second),
	)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", SubjectOverhaulRequested, err)
	}

	c.sub = sub
	c.logger.Info("Overhaul command consumer started", "subject", SubjectOverhaulRequested)
	return nil
}

func (c *OverhaulCommandConsumer) handleMessage(ctx context.Context, msg *nats.Msg) {
	var cmd OverhaulCommand
	if err := json.Unmarshal(msg.Data, &cmd); err != nil {
		c.logger.Warn("Malformed overhaul command dropped", "error", err.Error())
		_ = msg.Ack()
		return
	}

	if cmd.ParameterID == "" {
		c.logger.Warn("Overhaul command without parameter id dropped")
		_ = msg.Ack()
		return
	}

	if err := c.handler(ctx, cmd.ParameterID); err != nil {
		c.logger.Error("Failed to process overhaul command", err,
			"parameter_id", cmd.ParameterID,
		)
		return
	}

	c.logger.Info("Overhaul registered", "parameter_id", cmd.ParameterID, "signed_off_by", cmd.SignedOffBy)
	_ = msg.Ack()
}

// Close drains the subscription and closes the connection.
func (c *OverhaulCommandConsumer) Close() error {
	if c.sub != nil {
		if err := c.sub.Drain(); err != nil {
			c.logger.Warn("Failed to drain subscription", "error", err.Error())
		}
	}
	if c.nc != nil {
		c.nc.Close()
	}
	return nil
}
