package gateway

import (
	"context"
	"encoding/json"
	"time"
)

// Status values reported in gateway status messages.
type Status string

const (
	// StatusRunning indicates the gateway is operating normally.
	StatusRunning Status = "running"

	// StatusStopping indicates the gateway is shutting down.
	StatusStopping Status = "stopping"
)

// StatusMessage is the gateway's periodic operational report.
// Topic: <prefix>/gateway/status, retained.
type StatusMessage struct {
	// Gateway is the gateway instance identifier.
	Gateway string `json:"gateway"`

	// Timestamp is when the status was generated (UTC, ISO8601).
	Timestamp time.Time `json:"timestamp"`

	// Status indicates the current operational state.
	Status Status `json:"status"`

	// Version is the gateway software version.
	Version string `json:"version"`

	// UptimeSeconds is how long the gateway has been running.
	UptimeSeconds int64 `json:"uptime_seconds"`

	// Workers is the number of scheduled workers.
	Workers int `json:"workers"`

	// Statistics contains operational counters.
	Statistics Statistics `json:"statistics"`
}

// Statistics contains the gateway's operational counters.
type Statistics struct {
	// ScanCycles is the total number of worker update cycles run.
	ScanCycles uint64 `json:"scan_cycles"`

	// MessagesPublished is the total number of messages published.
	MessagesPublished uint64 `json:"messages_published"`

	// PublishErrors is the total number of failed publishes.
	PublishErrors uint64 `json:"publish_errors"`
}

// AvailabilityTopic returns the gateway's online/offline topic under the
// given global prefix. The MQTT client's LWT points here.
func AvailabilityTopic(prefix string) string {
	return prefix + "/gateway/LWT"
}

// StatusTopic returns the gateway's status report topic under the given
// global prefix.
func StatusTopic(prefix string) string {
	return prefix + "/gateway/status"
}

// statusLoop publishes the status message on the configured interval.
func (g *Gateway) statusLoop(ctx context.Context) {
	defer g.wg.Done()

	interval := time.Duration(g.cfg.StatusInterval) * time.Second

	// Announce immediately so subscribers see a fresh retained status.
	if err := g.publishStatus(StatusRunning); err != nil {
		g.logError("failed to publish status", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-g.done:
			return
		case <-ticker.C:
			if err := g.publishStatus(StatusRunning); err != nil {
				g.logError("failed to publish status", "error", err)
			}
		}
	}
}

// publishStatus publishes one retained status message.
func (g *Gateway) publishStatus(status Status) error {
	msg := StatusMessage{
		Gateway:       g.cfg.ID,
		Timestamp:     time.Now().UTC(),
		Status:        status,
		Version:       g.version,
		UptimeSeconds: int64(time.Since(g.startTime).Seconds()),
		Workers:       len(g.workers),
		Statistics:    g.snapshotStats(),
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	return g.publisher.Publish(StatusTopic(g.cfg.TopicPrefix), payload, g.qos, true)
}
