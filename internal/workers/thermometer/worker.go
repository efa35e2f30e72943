package thermometer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/leskowicz/bt-mqtt-gateway/internal/ble"
	"github.com/leskowicz/bt-mqtt-gateway/internal/infrastructure/config"
	"github.com/leskowicz/bt-mqtt-gateway/internal/workers"
)

// WorkerID identifies this worker in logs and gateway status reports.
const WorkerID = "thermometer"

// Scanner is the BLE scan primitive the worker depends on.
// Implemented by *ble.Scanner; faked in tests.
type Scanner interface {
	// Scan blocks for the given duration and returns the advertisements
	// observed, one per device address.
	Scan(ctx context.Context, duration time.Duration, passive bool) ([]*ble.Advertisement, error)
}

// Logger is the optional logging interface for the worker.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Options holds everything needed to construct a Worker.
type Options struct {
	// Config is the validated worker configuration.
	Config config.ThermometerConfig

	// GlobalTopicPrefix is the gateway's global topic prefix. The worker
	// needs it only to embed fully-prefixed topics in discovery payloads;
	// message topics stay relative.
	GlobalTopicPrefix string

	// Scanner is the BLE scan primitive.
	Scanner Scanner

	// Logger is optional.
	Logger Logger
}

// Worker bridges ATC thermometers to the message bus.
//
// All state (device statuses, the autoconfig cache) is private to one
// instance and touched only from Update; the gateway invokes Update from a
// single goroutine, so no locking is needed.
type Worker struct {
	cfg          config.ThermometerConfig
	globalPrefix string
	scanner      Scanner
	logger       Logger

	statuses []*DeviceStatus
	autoconf *autoconfCache

	now func() time.Time // test seam
}

// New creates the worker from validated configuration.
// One DeviceStatus is created per configured device; the set is fixed for
// the process lifetime.
func New(opts Options) (*Worker, error) {
	if opts.Scanner == nil {
		return nil, fmt.Errorf("thermometer: scanner is required")
	}
	if opts.GlobalTopicPrefix == "" {
		return nil, fmt.Errorf("thermometer: global topic prefix is required")
	}

	w := &Worker{
		cfg:          opts.Config,
		globalPrefix: opts.GlobalTopicPrefix,
		scanner:      opts.Scanner,
		logger:       opts.Logger,
		autoconf:     newAutoconfCache(),
		now:          time.Now,
	}

	for _, dev := range opts.Config.Devices {
		lwtTopic := w.formatTopic(dev.Name, "LWT")
		w.statuses = append(w.statuses, newDeviceStatus(dev, opts.Config, lwtTopic, w.now))
	}

	w.logInfo("tracking devices", "devices", len(w.statuses))
	return w, nil
}

// ID implements workers.Worker.
func (w *Worker) ID() string { return WorkerID }

// UpdateInterval implements workers.Worker.
func (w *Worker) UpdateInterval() time.Duration { return w.cfg.GetUpdateInterval() }

// Update runs one scan cycle and returns the ordered message batch.
//
// Per configured device, in configuration order: the availability
// announcement, then state messages when a valid payload was decoded, then
// the once-only discovery messages. A failed scan is logged and yields an
// empty batch; the next scheduled cycle proceeds normally.
func (w *Worker) Update(ctx context.Context) []workers.Message {
	w.logInfo("updating devices", "devices", len(w.statuses))

	advs, err := w.scanner.Scan(ctx, w.cfg.GetScanTimeout(), bool(w.cfg.ScanPassive))
	if err != nil {
		w.logError("scan failed, skipping cycle", "error", err)
		return nil
	}

	discovered := make(map[string]*ble.Advertisement, len(advs))
	for _, adv := range advs {
		discovered[strings.ToLower(adv.Addr)] = adv
	}

	var batch []workers.Message
	for _, status := range w.statuses {
		dev := discovered[status.MAC()] // nil when not seen this cycle

		status.SetStatus(dev != nil)
		batch = append(batch, status.GenerateMessages()...)
		batch = append(batch, w.parsePayload(dev, status.Name())...)

		key := strings.ReplaceAll(status.MAC(), ":", "")
		if msgs := w.autoconfMessages(key, status.Name()); msgs != nil {
			w.logInfo("autoconfiguring device", "key", key, "device", status.Name())
			batch = append(batch, msgs...)
		}
	}

	return batch
}

// formatTopic joins parts under the worker's topic prefix.
func (w *Worker) formatTopic(parts ...string) string {
	return strings.Join(append([]string{w.cfg.TopicPrefix}, parts...), "/")
}

// formatPrefixedTopic joins parts under the global and worker prefixes.
// Only discovery payloads need this; published topics are prefixed by the
// gateway.
func (w *Worker) formatPrefixedTopic(parts ...string) string {
	return w.globalPrefix + "/" + w.formatTopic(parts...)
}

func (w *Worker) logDebug(msg string, args ...any) {
	if w.logger != nil {
		w.logger.Debug(msg, args...)
	}
}

func (w *Worker) logInfo(msg string, args ...any) {
	if w.logger != nil {
		w.logger.Info(msg, args...)
	}
}

func (w *Worker) logError(msg string, args ...any) {
	if w.logger != nil {
		w.logger.Error(msg, args...)
	}
}
