package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for the gateway.
// All configuration is loaded from YAML and can be overridden by
// environment variables (optionally supplied via a .env file).
type Config struct {
	Gateway GatewayConfig `yaml:"gateway"`
	MQTT    MQTTConfig    `yaml:"mqtt"`
	Logging LoggingConfig `yaml:"logging"`
	Workers WorkersConfig `yaml:"workers"`
}

// GatewayConfig contains gateway identity and topic settings.
type GatewayConfig struct {
	// ID uniquely identifies this gateway instance.
	// Used in the MQTT client ID and in status reporting.
	ID string `yaml:"id"`

	// TopicPrefix is the global topic prefix prepended to every
	// published topic (e.g. "home/ble").
	TopicPrefix string `yaml:"topic_prefix"`

	// StatusInterval is how often to publish gateway status (seconds).
	// Default: 30 seconds.
	StatusInterval int `yaml:"status_interval"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// String returns a string representation with the password masked.
// Use this for logging to prevent credential exposure.
func (m MQTTConfig) String() string {
	password := ""
	if m.Auth.Password != "" {
		password = "[REDACTED]"
	}
	return fmt.Sprintf("MQTTConfig{Host:%q, Port:%d, TLS:%t, ClientID:%q, Username:%q, Password:%s, QoS:%d}",
		m.Broker.Host, m.Broker.Port, m.Broker.TLS, m.Broker.ClientID, m.Auth.Username, password, m.QoS)
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings (seconds).
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error.
	Level string `yaml:"level"`

	// Format is the log output format: json or text.
	Format string `yaml:"format"`

	// Output is the log destination: stdout or stderr.
	Output string `yaml:"output"`
}

// WorkersConfig contains per-worker configuration sections.
type WorkersConfig struct {
	Thermometer ThermometerConfig `yaml:"thermometer"`
}

// ThermometerConfig configures the ATC thermometer worker.
//
// Every field is explicit and validated at load time; workers receive this
// struct fully populated, never a loose settings map.
type ThermometerConfig struct {
	// TopicPrefix is the worker's topic prefix under the global prefix.
	TopicPrefix string `yaml:"topic_prefix"`

	// UpdateInterval is how often the worker runs a scan cycle (seconds).
	// Default: 60 seconds.
	UpdateInterval int `yaml:"update_interval"`

	// Devices is the fixed set of thermometers to track.
	Devices []DeviceConfig `yaml:"devices"`

	// AvailablePayload is published to <name>/LWT while a device is seen.
	AvailablePayload string `yaml:"available_payload"`

	// UnavailablePayload is published to <name>/LWT while a device is not seen.
	UnavailablePayload string `yaml:"unavailable_payload"`

	// AvailableTimeout is the debounce window after a device becomes
	// available (seconds). Default: 0 seconds.
	AvailableTimeout int `yaml:"available_timeout"`

	// UnavailableTimeout is the debounce window after a device becomes
	// unavailable (seconds). Default: 60 seconds.
	UnavailableTimeout int `yaml:"unavailable_timeout"`

	// ScanTimeout is the BLE scan window per cycle (seconds).
	// Default: 10 seconds.
	ScanTimeout float64 `yaml:"scan_timeout"`

	// ScanPassive selects passive LE scanning. Accepts booleans as well
	// as truthy strings ("yes", "on", "1").
	ScanPassive Truthy `yaml:"scan_passive"`
}

// DeviceConfig identifies one tracked thermometer.
type DeviceConfig struct {
	// Name is the device's topic segment (e.g. "living_room").
	Name string `yaml:"name"`

	// MAC is the device hardware address, colon-separated.
	MAC string `yaml:"mac"`
}

// Truthy is a boolean that also accepts loosely-typed YAML scalars:
// "true"/"false", "yes"/"no", "on"/"off", "1"/"0" and bare integers.
type Truthy bool

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *Truthy) UnmarshalYAML(value *yaml.Node) error {
	var b bool
	if err := value.Decode(&b); err == nil {
		*t = Truthy(b)
		return nil
	}

	var n int
	if err := value.Decode(&n); err == nil {
		*t = n != 0
		return nil
	}

	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("config: cannot interpret %q as boolean", value.Value)
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "on", "y", "1":
		*t = true
	case "false", "no", "off", "n", "0", "":
		*t = false
	default:
		return fmt.Errorf("config: cannot interpret %q as boolean", s)
	}
	return nil
}

// macPattern matches colon-separated hardware addresses (aa:bb:cc:dd:ee:ff).
var macPattern = regexp.MustCompile(`^[0-9a-fA-F]{2}(:[0-9a-fA-F]{2}){5}$`)

// Load reads configuration from a YAML file.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values; a .env file in the
//     working directory is honoured if present)
//
// Environment variables follow the pattern: BTMQTTGW_SECTION_KEY
// For example: BTMQTTGW_MQTT_HOST, BTMQTTGW_MQTT_PASSWORD
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Best-effort .env load so deployments can keep credentials out of
	// the YAML file. Missing .env is not an error.
	_ = godotenv.Load()

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Gateway: GatewayConfig{
			ID:             "bt-mqtt-gateway-01",
			TopicPrefix:    "home",
			StatusInterval: 30,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host: "localhost",
				Port: 1883,
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Workers: WorkersConfig{
			Thermometer: ThermometerConfig{
				TopicPrefix:        "thermometer",
				UpdateInterval:     60,
				AvailablePayload:   "Online",
				UnavailablePayload: "Offline",
				AvailableTimeout:   0,
				UnavailableTimeout: 60,
				ScanTimeout:        10,
				ScanPassive:        true,
			},
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: BTMQTTGW_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Gateway
	if v := os.Getenv("BTMQTTGW_GATEWAY_ID"); v != "" {
		cfg.Gateway.ID = v
	}
	if v := os.Getenv("BTMQTTGW_GATEWAY_TOPIC_PREFIX"); v != "" {
		cfg.Gateway.TopicPrefix = v
	}

	// MQTT
	if v := os.Getenv("BTMQTTGW_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("BTMQTTGW_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("BTMQTTGW_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []string

	errs = append(errs, c.validateGateway()...)
	errs = append(errs, c.validateMQTT()...)
	errs = append(errs, c.validateLogging()...)
	errs = append(errs, c.Workers.Thermometer.validate()...)

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// validateGateway validates gateway settings.
func (c *Config) validateGateway() []string {
	var errs []string
	if c.Gateway.ID == "" {
		errs = append(errs, "gateway.id is required")
	}
	if c.Gateway.TopicPrefix == "" {
		errs = append(errs, "gateway.topic_prefix is required")
	} else if strings.ContainsAny(c.Gateway.TopicPrefix, "#+") {
		errs = append(errs, "gateway.topic_prefix must not contain MQTT wildcards")
	} else if strings.HasSuffix(c.Gateway.TopicPrefix, "/") {
		errs = append(errs, "gateway.topic_prefix must not end with a slash")
	}
	if c.Gateway.StatusInterval < 1 {
		errs = append(errs, "gateway.status_interval must be at least 1 second")
	}
	return errs
}

// validateMQTT validates MQTT broker settings.
func (c *Config) validateMQTT() []string {
	var errs []string
	if c.MQTT.Broker.Host == "" {
		errs = append(errs, "mqtt.broker.host is required")
	}
	if c.MQTT.Broker.Port < 1 || c.MQTT.Broker.Port > 65535 {
		errs = append(errs, "mqtt.broker.port must be between 1 and 65535")
	}
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}
	return errs
}

// validateLogging validates logging settings.
func (c *Config) validateLogging() []string {
	var errs []string

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		errs = append(errs, fmt.Sprintf("logging.level %q is invalid (use debug, info, warn, or error)", c.Logging.Level))
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		errs = append(errs, fmt.Sprintf("logging.format %q is invalid (use json or text)", c.Logging.Format))
	}

	return errs
}

// validate validates thermometer worker settings.
func (t ThermometerConfig) validate() []string {
	var errs []string
	const section = "workers.thermometer"

	if t.TopicPrefix == "" {
		errs = append(errs, section+".topic_prefix is required")
	}
	if t.UpdateInterval < 1 {
		errs = append(errs, section+".update_interval must be at least 1 second")
	}
	if t.ScanTimeout <= 0 {
		errs = append(errs, section+".scan_timeout must be greater than zero")
	}
	if t.AvailableTimeout < 0 {
		errs = append(errs, section+".available_timeout must not be negative")
	}
	if t.UnavailableTimeout < 0 {
		errs = append(errs, section+".unavailable_timeout must not be negative")
	}
	if t.AvailablePayload == "" {
		errs = append(errs, section+".available_payload is required")
	}
	if t.UnavailablePayload == "" {
		errs = append(errs, section+".unavailable_payload is required")
	}

	names := make(map[string]bool)
	macs := make(map[string]bool)
	for i, dev := range t.Devices {
		if dev.Name == "" {
			errs = append(errs, fmt.Sprintf("%s.devices[%d].name is required", section, i))
		} else if strings.ContainsAny(dev.Name, "#+/") {
			errs = append(errs, fmt.Sprintf("%s.devices[%d].name %q must not contain MQTT separators or wildcards", section, i, dev.Name))
		} else if names[dev.Name] {
			errs = append(errs, fmt.Sprintf("%s.devices[%d].name %q is duplicate", section, i, dev.Name))
		}
		names[dev.Name] = true

		if dev.MAC == "" {
			errs = append(errs, fmt.Sprintf("%s.devices[%d].mac is required", section, i))
		} else if !macPattern.MatchString(dev.MAC) {
			errs = append(errs, fmt.Sprintf("%s.devices[%d].mac %q is invalid (use aa:bb:cc:dd:ee:ff)", section, i, dev.MAC))
		} else if mac := strings.ToLower(dev.MAC); macs[mac] {
			errs = append(errs, fmt.Sprintf("%s.devices[%d].mac %q is duplicate", section, i, dev.MAC))
		} else {
			macs[mac] = true
		}
	}

	return errs
}

// GetStatusInterval returns the gateway status interval as a Duration.
func (c *Config) GetStatusInterval() time.Duration {
	return time.Duration(c.Gateway.StatusInterval) * time.Second
}

// GetMQTTClientID returns the MQTT client ID, defaulting to the gateway ID.
func (c *Config) GetMQTTClientID() string {
	if c.MQTT.Broker.ClientID != "" {
		return c.MQTT.Broker.ClientID
	}
	return c.Gateway.ID
}

// GetUpdateInterval returns the worker update interval as a Duration.
func (t ThermometerConfig) GetUpdateInterval() time.Duration {
	return time.Duration(t.UpdateInterval) * time.Second
}

// GetScanTimeout returns the BLE scan window as a Duration.
func (t ThermometerConfig) GetScanTimeout() time.Duration {
	return time.Duration(t.ScanTimeout * float64(time.Second))
}

// GetAvailableTimeout returns the available debounce window as a Duration.
func (t ThermometerConfig) GetAvailableTimeout() time.Duration {
	return time.Duration(t.AvailableTimeout) * time.Second
}

// GetUnavailableTimeout returns the unavailable debounce window as a Duration.
func (t ThermometerConfig) GetUnavailableTimeout() time.Duration {
	return time.Duration(t.UnavailableTimeout) * time.Second
}
