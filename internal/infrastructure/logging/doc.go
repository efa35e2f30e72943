// Package logging provides structured logging for the gateway.
//
// It wraps Go's standard log/slog package so every component logs through
// the same handler with consistent default fields.
//
// # Features
//
//   - JSON output for production (machine-parsable)
//   - Text output for development (human-readable)
//   - Default fields (service, version) on all log entries
//   - Level-based filtering (debug, info, warn, error)
//   - Thread-safe for concurrent use
//
// # Usage
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	logger.Info("gateway starting", "workers", 1)
//	logger.Error("publish failed", "error", err)
//
// Never log MQTT credentials; config.MQTTConfig.String() masks them.
package logging
