// bt-mqtt-gateway - Bluetooth LE to MQTT bridge
//
// This is the main entry point for the gateway. It wires the configured
// workers to the BLE scanner and the MQTT broker, then hands control to the
// gateway scheduler until a shutdown signal arrives.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/leskowicz/bt-mqtt-gateway/internal/ble"
	"github.com/leskowicz/bt-mqtt-gateway/internal/gateway"
	"github.com/leskowicz/bt-mqtt-gateway/internal/infrastructure/config"
	"github.com/leskowicz/bt-mqtt-gateway/internal/infrastructure/logging"
	"github.com/leskowicz/bt-mqtt-gateway/internal/infrastructure/mqtt"
	"github.com/leskowicz/bt-mqtt-gateway/internal/workers"
	"github.com/leskowicz/bt-mqtt-gateway/internal/workers/thermometer"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Cancel on interrupt signals (Ctrl+C, SIGTERM) for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting bt-mqtt-gateway",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Connect to the MQTT broker; the LWT flips the gateway's retained
	// availability to offline if the process dies.
	availabilityTopic := gateway.AvailabilityTopic(cfg.Gateway.TopicPrefix)
	client, err := mqtt.Connect(cfg.MQTT, cfg.GetMQTTClientID(), availabilityTopic)
	if err != nil {
		return fmt.Errorf("connecting to mqtt broker: %w", err)
	}
	defer func() {
		log.Info("disconnecting from mqtt broker")
		if closeErr := client.Close(); closeErr != nil {
			log.Error("error closing mqtt client", "error", closeErr)
		}
	}()
	client.SetLogger(log.With("component", "mqtt"))
	client.SetOnConnect(func() {
		log.Info("mqtt connection established", "broker", cfg.MQTT.String())
	})
	log.Info("mqtt connected", "client_id", cfg.GetMQTTClientID())

	// BLE scanner; the HCI device opens lazily on the first scan
	scanner := ble.NewScanner(log.With("component", "ble"))
	defer func() {
		if closeErr := scanner.Close(); closeErr != nil {
			log.Error("error closing ble scanner", "error", closeErr)
		}
	}()

	worker, err := thermometer.New(thermometer.Options{
		Config:            cfg.Workers.Thermometer,
		GlobalTopicPrefix: cfg.Gateway.TopicPrefix,
		Scanner:           scanner,
		Logger:            log.With("worker", thermometer.WorkerID),
	})
	if err != nil {
		return fmt.Errorf("creating thermometer worker: %w", err)
	}

	gw, err := gateway.New(gateway.Options{
		Config:    cfg.Gateway,
		QoS:       byte(cfg.MQTT.QoS),
		Publisher: client,
		Workers:   []workers.Worker{worker},
		Version:   version,
		Logger:    log.With("component", "gateway"),
	})
	if err != nil {
		return fmt.Errorf("creating gateway: %w", err)
	}

	gw.Start(ctx)

	<-ctx.Done()
	log.Info("shutdown signal received")
	gw.Stop()

	return nil
}

// getConfigPath resolves the configuration file path from the command line,
// the BTMQTTGW_CONFIG environment variable, or the default.
func getConfigPath() string {
	if len(os.Args) > 1 {
		return os.Args[1]
	}
	if v := os.Getenv("BTMQTTGW_CONFIG"); v != "" {
		return v
	}
	return defaultConfigPath
}
