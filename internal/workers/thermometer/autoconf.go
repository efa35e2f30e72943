package thermometer

import (
	"encoding/json"
	"strings"

	"github.com/leskowicz/bt-mqtt-gateway/internal/workers"
)

// Device metadata announced in Home Assistant discovery payloads.
const (
	deviceManufacturer = "Xiaomi"
	deviceModel        = "LYWSD03MMC"
	deviceSWVersion    = "1.0"
)

// discoveryFields enumerates the sensor entities announced per device,
// in emission order.
var discoveryFields = []struct {
	deviceClass string
	field       string // JSON field in the state payload, also the topic segment
	unit        string
}{
	{"temperature", "temperature", "°C"},
	{"humidity", "humidity", "%"},
	{"battery", "battery", "%"},
	{"signal_strength", "rssi", "dB"},
}

// discoveryConfig is a Home Assistant MQTT discovery payload for one sensor
// entity. Field names follow HA's abbreviated discovery schema.
type discoveryConfig struct {
	TopicBase           string          `json:"~"`
	StateTopic          string          `json:"state_topic"`
	AvailabilityTopic   string          `json:"avty_t"`
	PayloadAvailable    string          `json:"pl_avail"`
	PayloadNotAvailable string          `json:"pl_not_avail"`
	Device              discoveryDevice `json:"device"`
	DeviceClass         string          `json:"device_class"`
	Name                string          `json:"name"`
	UniqueID            string          `json:"uniq_id"`
	ValueTemplate       string          `json:"value_template"`
	UnitOfMeasurement   string          `json:"unit_of_measurement"`
}

// discoveryDevice groups the entities of one physical thermometer in HA.
type discoveryDevice struct {
	Identifiers  string `json:"identifiers"`
	Name         string `json:"name"`
	Manufacturer string `json:"mf"`
	Model        string `json:"mdl"`
	SWVersion    string `json:"sw"`
}

// autoconfCache is the idempotency guard for discovery emission: a device
// key is claimed at most once per process lifetime. This is deliberate
// once-only semantics, not a performance cache; entries never expire.
type autoconfCache struct {
	done map[string]bool
}

func newAutoconfCache() *autoconfCache {
	return &autoconfCache{done: make(map[string]bool)}
}

// claim marks key as emitted and reports whether this was the first claim.
func (c *autoconfCache) claim(key string) bool {
	if c.done[key] {
		return false
	}
	c.done[key] = true
	return true
}

// autoconfMessages returns the device's discovery messages on the first call
// for a given key, and nil on every later call regardless of name.
//
// key is the device's stable identifier (MAC with separators stripped);
// name is its configured topic segment.
func (w *Worker) autoconfMessages(key, name string) []workers.Message {
	if !w.autoconf.claim(key) {
		return nil
	}

	msgs := make([]workers.Message, 0, len(discoveryFields))
	for _, f := range discoveryFields {
		cfg := w.discoveryConfigFor(key, name, f.deviceClass, f.field, f.unit)
		payload, err := json.Marshal(cfg)
		if err != nil {
			continue
		}
		msgs = append(msgs, workers.Message{
			Topic:   w.formatTopic(name, f.field, "config"),
			Payload: payload,
			Retain:  true,
		})
	}
	return msgs
}

// discoveryConfigFor assembles the discovery payload for one sensor entity.
func (w *Worker) discoveryConfigFor(key, name, deviceClass, field, unit string) discoveryConfig {
	properName := displayName(name)
	return discoveryConfig{
		TopicBase:           w.formatPrefixedTopic(name),
		StateTopic:          "~/state",
		AvailabilityTopic:   "~/LWT",
		PayloadAvailable:    w.cfg.AvailablePayload,
		PayloadNotAvailable: w.cfg.UnavailablePayload,
		Device: discoveryDevice{
			Identifiers:  key,
			Name:         properName,
			Manufacturer: deviceManufacturer,
			Model:        deviceModel,
			SWVersion:    deviceSWVersion,
		},
		DeviceClass:       deviceClass,
		Name:              properName + " " + capitalize(field),
		UniqueID:          key + "_" + field,
		ValueTemplate:     "{{ value_json." + field + " | round(1) }}",
		UnitOfMeasurement: unit,
	}
}

// displayName turns a topic segment into a display name:
// "living_room" → "Living Room".
func displayName(name string) string {
	words := strings.Split(strings.ReplaceAll(name, "_", " "), " ")
	for i, word := range words {
		words[i] = capitalize(word)
	}
	return strings.Join(words, " ")
}

// capitalize upper-cases the first byte of an ASCII word.
func capitalize(word string) string {
	if word == "" {
		return word
	}
	return strings.ToUpper(word[:1]) + word[1:]
}
