package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dreschagin/fleet-maintenance/pkg/logger"
	"github.com/nats-io/nats.go"
	"golang.org/x/time/rate"
)

// FlightHoursStream is the JetStream stream holding incoming hour readings.
const FlightHoursStream = "FLIGHTHOURS"

// SubjectFlightHoursRecorded carries flight hour readings from flight ops.
const SubjectFlightHoursRecorded = "flight.hours.recorded"

// FlightHoursReading is the wire format of an incoming hour reading.
type FlightHoursReading struct {
	AircraftID      string    `json:"aircraft_id"`
	CumulativeHours float64   `json:"cumulative_hours"`
	RecordedAt      time.Time `json:"recorded_at"`
}

// FlightHoursHandler processes one hour reading. A returned error leaves the
// message unacknowledged so JetStream redelivers it.
type FlightHoursHandler func(ctx context.Context, aircraftID string, cumulativeHours float64) error

// FlightHoursConsumer consumes hour readings from NATS and feeds them to the
// propagation engine, throttled so a burst of readings cannot saturate the DB.
type FlightHoursConsumer struct {
	nc      *nats.Conn
	js      nats.JetStreamContext
	sub     *nats.Subscription
	handler FlightHoursHandler
	limiter *rate.Limiter
	logger  *logger.Logger
}

// NewFlightHoursConsumer creates a consumer with its own NATS connection.
// ratePerSecond bounds how many readings per second reach the handler.
func NewFlightHoursConsumer(natsURL string, handler FlightHoursHandler, ratePerSecond float64, burst int, log *logger.Logger) (*FlightHoursConsumer, error) {
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

	if ratePerSecond <= 0 {
		ratePerSecond = 10
	}
	if burst <= 0 {
		burst = 1
	}

	return &FlightHoursConsumer{
		nc:      nc,
		js:      js,
		handler: handler,
		limiter: rate.NewLimiter(rate.Limit(ratePerSecond), burst),
		logger:  log,
	}, nil
}

// Start ensures the readings stream exists and opens a durable subscription.
// Processing stops when ctx is cancelled.
func (c *FlightHoursConsumer) Start(ctx context.Context) error {
	if _, err := c.js.StreamInfo(FlightHoursStream); err != nil {
		_, err = c.js.AddStream(&nats.StreamConfig{
			Name:      FlightHoursStream,
			Subjects:  []string{"flight.hours.>"},
			Retention: nats.WorkQueuePolicy,
		})
		if err != nil {
			return fmt.Errorf("failed to create flight hours stream: %w", err)
		}
	}

	sub, err := c.js.Subscribe(SubjectFlightHoursRecorded,
		func(msg *nats.Msg) {
			c.handleMessage(ctx, msg)
		},
		nats.Durable("fleet-maintenance-engine"),
		nats.ManualAck(),
		nats.AckWait(30*time.Second),
	)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", SubjectFlightHoursRecorded, err)
	}

	c.sub = sub
	c.logger.Info("Flight hours consumer started", "subject", SubjectFlightHoursRecorded)
	return nil
}

func (c *FlightHoursConsumer) handleMessage(ctx context.Context, msg *nats.Msg) {
	if err := c.limiter.Wait(ctx); err != nil {
		// Shutdown in progress: leave the message for redelivery
		return
	}

	var reading FlightHoursReading
	if err := json.Unmarshal(msg.Data, &reading); err != nil {
		c.logger.Warn("Malformed hour reading dropped", "error", err.Error())
		// Poison message, redelivery will not fix it
		_ = msg.Ack()
		return
	}

	if reading.AircraftID == "" {
		c.logger.Warn("Hour reading without aircraft id dropped")
		_ = msg.Ack()
		return
	}

	if err := c.handler(ctx, reading.AircraftID, reading.CumulativeHours); err != nil {
		c.logger.Error("Failed to process hour reading", err,
			"aircraft_id", reading.AircraftID,
			"cumulative_hours", reading.CumulativeHours,
		)
		// No ack: JetStream redelivers after AckWait
		return
	}

	_ = msg.Ack()
}

// Close drains the subscription and closes the connection.
func (c *FlightHoursConsumer) Close() error {
	if c.sub != nil {
		if err := c.sub.Drain(); err != nil {
			c.logger.Warn("Failed to drain subscription", "error", err.Error())
		}
	}
	if c.nc != nil {
		c.logger.Info("Closing NATS consumer connection")
		c.nc.Close()
	}
	return nil
}
