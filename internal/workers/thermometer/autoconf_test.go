package thermometer

import (
	"encoding/json"
	"testing"
)

func TestAutoconfCacheClaim(t *testing.T) {
	cache := newAutoconfCache()

	if !cache.claim("a4c138112233") {
		t.Error("first claim returned false")
	}
	if cache.claim("a4c138112233") {
		t.Error("second claim returned true")
	}
	if !cache.claim("a4c138445566") {
		t.Error("claim for a different key returned false")
	}
}

func TestAutoconfMessagesOnce(t *testing.T) {
	w := newTestWorker(t, &stubScanner{})

	first := w.autoconfMessages("a4c138112233", "living_room")
	if len(first) != len(discoveryFields) {
		t.Fatalf("first call returned %d messages, want %d", len(first), len(discoveryFields))
	}

	// Later calls return nothing, even under a different name.
	if again := w.autoconfMessages("a4c138112233", "living_room"); again != nil {
		t.Errorf("second call returned %d messages, want nil", len(again))
	}
	if renamed := w.autoconfMessages("a4c138112233", "lounge"); renamed != nil {
		t.Errorf("call with renamed device returned %d messages, want nil", len(renamed))
	}
}

func TestAutoconfMessageTopics(t *testing.T) {
	w := newTestWorker(t, &stubScanner{})

	msgs := w.autoconfMessages("a4c138112233", "living_room")
	wantTopics := []string{
		"thermometer/living_room/temperature/config",
		"thermometer/living_room/humidity/config",
		"thermometer/living_room/battery/config",
		"thermometer/living_room/rssi/config",
	}
	if len(msgs) != len(wantTopics) {
		t.Fatalf("got %d messages, want %d", len(msgs), len(wantTopics))
	}
	for i, want := range wantTopics {
		if msgs[i].Topic != want {
			t.Errorf("message %d topic = %q, want %q", i, msgs[i].Topic, want)
		}
		if !msgs[i].Retain {
			t.Errorf("message %d not retained", i)
		}
	}
}

func TestAutoconfPayload(t *testing.T) {
	w := newTestWorker(t, &stubScanner{})

	msgs := w.autoconfMessages("a4c138112233", "living_room")
	if len(msgs) == 0 {
		t.Fatal("no discovery messages")
	}

	var cfg discoveryConfig
	if err := json.Unmarshal(msgs[0].Payload, &cfg); err != nil {
		t.Fatalf("discovery payload is not JSON: %v", err)
	}

	// Topics in the payload are fully prefixed; published topics are not.
	if cfg.TopicBase != "home/thermometer/living_room" {
		t.Errorf("~ = %q, want home/thermometer/living_room", cfg.TopicBase)
	}
	if cfg.StateTopic != "~/state" {
		t.Errorf("state_topic = %q, want ~/state", cfg.StateTopic)
	}
	if cfg.AvailabilityTopic != "~/LWT" {
		t.Errorf("avty_t = %q, want ~/LWT", cfg.AvailabilityTopic)
	}
	if cfg.PayloadAvailable != "Online" || cfg.PayloadNotAvailable != "Offline" {
		t.Errorf("availability payloads = %q/%q, want Online/Offline",
			cfg.PayloadAvailable, cfg.PayloadNotAvailable)
	}
	if cfg.DeviceClass != "temperature" {
		t.Errorf("device_class = %q, want temperature", cfg.DeviceClass)
	}
	if cfg.Name != "Living Room Temperature" {
		t.Errorf("name = %q, want Living Room Temperature", cfg.Name)
	}
	if cfg.UniqueID != "a4c138112233_temperature" {
		t.Errorf("uniq_id = %q, want a4c138112233_temperature", cfg.UniqueID)
	}
	if cfg.ValueTemplate != "{{ value_json.temperature | round(1) }}" {
		t.Errorf("value_template = %q", cfg.ValueTemplate)
	}
	if cfg.UnitOfMeasurement != "°C" {
		t.Errorf("unit_of_measurement = %q, want °C", cfg.UnitOfMeasurement)
	}

	dev := cfg.Device
	if dev.Identifiers != "a4c138112233" {
		t.Errorf("device identifiers = %q, want a4c138112233", dev.Identifiers)
	}
	if dev.Name != "Living Room" {
		t.Errorf("device name = %q, want Living Room", dev.Name)
	}
	if dev.Manufacturer != deviceManufacturer || dev.Model != deviceModel {
		t.Errorf("device = %q %q, want %q %q",
			dev.Manufacturer, dev.Model, deviceManufacturer, deviceModel)
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"living_room", "Living Room"},
		{"bedroom", "Bedroom"},
		{"attic_north_window", "Attic North Window"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := displayName(tt.in); got != tt.want {
			t.Errorf("displayName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
