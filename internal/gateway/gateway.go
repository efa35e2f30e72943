package gateway

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/leskowicz/bt-mqtt-gateway/internal/infrastructure/config"
	"github.com/leskowicz/bt-mqtt-gateway/internal/workers"
)

// Publisher is the interface for MQTT publish operations.
// This allows mocking in tests and flexibility in implementation.
type Publisher interface {
	// Publish sends a message to a topic.
	Publish(topic string, payload []byte, qos byte, retained bool) error

	// IsConnected returns true if connected to the broker.
	IsConnected() bool
}

// Logger is the optional logging interface for the gateway.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Options holds configuration for creating a gateway.
type Options struct {
	// Config is the gateway section of the loaded configuration.
	Config config.GatewayConfig

	// QoS is the quality-of-service level for published messages.
	QoS byte

	// Publisher is the MQTT client implementation.
	Publisher Publisher

	// Workers are the device workers to schedule.
	Workers []workers.Worker

	// Version is the gateway build version, reported in status messages.
	Version string

	// Logger is optional structured logger.
	Logger Logger
}

// Gateway schedules workers and publishes their message batches.
type Gateway struct {
	cfg       config.GatewayConfig
	qos       byte
	publisher Publisher
	workers   []workers.Worker
	version   string
	startTime time.Time

	// Operational counters, reported in status messages.
	stats   Statistics
	statsMu sync.Mutex

	// Shutdown coordination
	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once

	logger Logger
}

// New creates a gateway instance. Call Start to begin operation.
func New(opts Options) (*Gateway, error) {
	if opts.Publisher == nil {
		return nil, fmt.Errorf("gateway: publisher is required")
	}
	if len(opts.Workers) == 0 {
		return nil, fmt.Errorf("gateway: at least one worker is required")
	}

	return &Gateway{
		cfg:       opts.Config,
		qos:       opts.QoS,
		publisher: opts.Publisher,
		workers:   opts.Workers,
		version:   opts.Version,
		startTime: time.Now(),
		done:      make(chan struct{}),
		logger:    opts.Logger,
	}, nil
}

// Start begins scheduling workers and reporting status.
// It returns immediately; loops run until ctx is cancelled or Stop is called.
func (g *Gateway) Start(ctx context.Context) {
	for _, w := range g.workers {
		g.wg.Add(1)
		go g.runWorker(ctx, w)
	}

	g.wg.Add(1)
	go g.statusLoop(ctx)

	g.logInfo("gateway started",
		"gateway_id", g.cfg.ID,
		"topic_prefix", g.cfg.TopicPrefix,
		"workers", len(g.workers),
	)
}

// Stop gracefully shuts down the gateway.
// In-flight cycles finish; a final "stopping" status is published.
func (g *Gateway) Stop() {
	g.stopOnce.Do(func() {
		close(g.done)
		g.wg.Wait()

		//nolint:errcheck // Best-effort during shutdown
		g.publishStatus(StatusStopping)

		g.logInfo("gateway stopped")
	})
}

// runWorker drives one worker: an immediate first cycle, then one cycle per
// update interval.
func (g *Gateway) runWorker(ctx context.Context, w workers.Worker) {
	defer g.wg.Done()

	g.logInfo("worker scheduled", "worker", w.ID(), "interval", w.UpdateInterval())

	g.runCycle(ctx, w)

	ticker := time.NewTicker(w.UpdateInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-g.done:
			return
		case <-ticker.C:
			g.runCycle(ctx, w)
		}
	}
}

// runCycle performs one worker update and publishes the resulting batch.
func (g *Gateway) runCycle(ctx context.Context, w workers.Worker) {
	batch := w.Update(ctx)

	g.statsMu.Lock()
	g.stats.ScanCycles++
	g.statsMu.Unlock()

	g.publishBatch(w, batch)
}

// publishBatch publishes a worker's messages in order under the global
// topic prefix. Failures are logged and counted; later messages in the
// batch are still attempted.
func (g *Gateway) publishBatch(w workers.Worker, batch []workers.Message) {
	for _, msg := range batch {
		topic := g.cfg.TopicPrefix + "/" + msg.Topic
		if err := g.publisher.Publish(topic, msg.Payload, g.qos, msg.Retain); err != nil {
			g.statsMu.Lock()
			g.stats.PublishErrors++
			g.statsMu.Unlock()
			g.logError("publish failed", "worker", w.ID(), "topic", topic, "error", err)
			continue
		}
		g.statsMu.Lock()
		g.stats.MessagesPublished++
		g.statsMu.Unlock()
	}
}

// snapshotStats returns a copy of the current counters.
func (g *Gateway) snapshotStats() Statistics {
	g.statsMu.Lock()
	defer g.statsMu.Unlock()
	return g.stats
}

func (g *Gateway) logDebug(msg string, args ...any) {
	if g.logger != nil {
		g.logger.Debug(msg, args...)
	}
}

func (g *Gateway) logInfo(msg string, args ...any) {
	if g.logger != nil {
		g.logger.Info(msg, args...)
	}
}

func (g *Gateway) logError(msg string, args ...any) {
	if g.logger != nil {
		g.logger.Error(msg, args...)
	}
}
