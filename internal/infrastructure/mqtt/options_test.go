package mqtt

import (
	"strings"
	"testing"

	"github.com/leskowicz/bt-mqtt-gateway/internal/infrastructure/config"
)

func TestBuildClientOptions(t *testing.T) {
	cfg := config.MQTTConfig{
		Broker: config.MQTTBrokerConfig{Host: "broker.local", Port: 1883},
		Auth:   config.MQTTAuthConfig{Username: "gw", Password: "secret"},
		QoS:    1,
		Reconnect: config.MQTTReconnectConfig{
			InitialDelay: 1,
			MaxDelay:     60,
		},
	}

	opts := buildClientOptions(cfg, "bt-mqtt-gateway-01")

	if len(opts.Servers) != 1 {
		t.Fatalf("Servers = %d, want 1", len(opts.Servers))
	}
	if got := opts.Servers[0].String(); got != "tcp://broker.local:1883" {
		t.Errorf("broker URL = %q, want tcp://broker.local:1883", got)
	}
	if opts.ClientID != "bt-mqtt-gateway-01" {
		t.Errorf("ClientID = %q, want bt-mqtt-gateway-01", opts.ClientID)
	}
	if opts.Username != "gw" {
		t.Errorf("Username = %q, want gw", opts.Username)
	}
	if !opts.AutoReconnect {
		t.Error("AutoReconnect = false, want true")
	}
	if opts.TLSConfig != nil {
		t.Error("TLSConfig set without tls enabled")
	}
}

func TestBuildClientOptionsTLS(t *testing.T) {
	cfg := config.MQTTConfig{
		Broker: config.MQTTBrokerConfig{Host: "broker.local", Port: 8883, TLS: true},
	}

	opts := buildClientOptions(cfg, "gw")

	if got := opts.Servers[0].Scheme; got != "ssl" {
		t.Errorf("scheme = %q, want ssl", got)
	}
	if opts.TLSConfig == nil {
		t.Fatal("TLSConfig = nil, want configured")
	}
	if opts.TLSConfig.MinVersion != tlsMinVersion {
		t.Errorf("MinVersion = %x, want %x", opts.TLSConfig.MinVersion, tlsMinVersion)
	}
}

func TestConfigureLWT(t *testing.T) {
	cfg := config.MQTTConfig{
		Broker: config.MQTTBrokerConfig{Host: "localhost", Port: 1883},
	}
	opts := buildClientOptions(cfg, "gw")
	configureLWT(opts, "home/gateway/LWT")

	if !opts.WillEnabled {
		t.Fatal("WillEnabled = false, want true")
	}
	if opts.WillTopic != "home/gateway/LWT" {
		t.Errorf("WillTopic = %q, want home/gateway/LWT", opts.WillTopic)
	}
	if got := string(opts.WillPayload); got != unavailableStatusPayload {
		t.Errorf("WillPayload = %q, want %q", got, unavailableStatusPayload)
	}
	if !opts.WillRetained {
		t.Error("WillRetained = false, want true")
	}
}

func TestPublishValidation(t *testing.T) {
	c := &Client{}

	if err := c.Publish("", []byte("x"), 1, false); err != ErrInvalidTopic {
		t.Errorf("empty topic error = %v, want ErrInvalidTopic", err)
	}
	if err := c.Publish("topic", []byte("x"), 3, false); err != ErrInvalidQoS {
		t.Errorf("bad qos error = %v, want ErrInvalidQoS", err)
	}

	huge := []byte(strings.Repeat("a", maxPayloadSize+1))
	err := c.Publish("topic", huge, 1, false)
	if err == nil || !strings.Contains(err.Error(), "exceeds maximum") {
		t.Errorf("oversize payload error = %v, want size error", err)
	}
}
