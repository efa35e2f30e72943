package workers

import (
	"context"
	"time"
)

// Message is a single outbound MQTT message produced by a worker.
//
// Topics are relative to the gateway's global topic prefix. A worker that
// returns a message with topic "thermometer/living_room/state" and a gateway
// configured with prefix "home/ble" results in a publish to
// "home/ble/thermometer/living_room/state".
type Message struct {
	// Topic is the message topic, relative to the global topic prefix.
	Topic string

	// Payload is the raw message payload (typically JSON or a plain string).
	Payload []byte

	// Retain indicates whether the broker should retain the message
	// for new subscribers.
	Retain bool
}

// Worker is the contract between the gateway and a device worker.
//
// The gateway owns scheduling and publishing: it calls Update on the
// configured interval and publishes the returned batch in order. Workers
// hold no message queue and never block on publish.
type Worker interface {
	// ID identifies the worker in logs and gateway status reports.
	ID() string

	// UpdateInterval is how often the gateway should call Update.
	UpdateInterval() time.Duration

	// Update performs one update cycle and returns the ordered batch of
	// messages to publish. A failed cycle returns an empty batch; workers
	// handle and log their own transport failures.
	Update(ctx context.Context) []Message
}
