package thermometer

import (
	"strings"
	"time"

	"github.com/leskowicz/bt-mqtt-gateway/internal/infrastructure/config"
	"github.com/leskowicz/bt-mqtt-gateway/internal/workers"
)

// DeviceStatus tracks one configured device's last-known availability.
//
// One instance exists per configured device for the process lifetime. All
// mutation happens from the worker's single update cycle.
type DeviceStatus struct {
	mac  string // lowercase, colon-separated
	name string

	available      bool
	lastStatusTime time.Time
	messageSent    bool

	availableTimeout   time.Duration
	unavailableTimeout time.Duration
	availablePayload   string
	unavailablePayload string
	lwtTopic           string

	now func() time.Time
}

// newDeviceStatus creates the status record for one configured device.
// Devices start out unavailable with the current time as their last
// transition.
func newDeviceStatus(dev config.DeviceConfig, cfg config.ThermometerConfig, lwtTopic string, now func() time.Time) *DeviceStatus {
	return &DeviceStatus{
		mac:                strings.ToLower(dev.MAC),
		name:               dev.Name,
		available:          false,
		lastStatusTime:     now(),
		messageSent:        true,
		availableTimeout:   cfg.GetAvailableTimeout(),
		unavailableTimeout: cfg.GetUnavailableTimeout(),
		availablePayload:   cfg.AvailablePayload,
		unavailablePayload: cfg.UnavailablePayload,
		lwtTopic:           lwtTopic,
		now:                now,
	}
}

// MAC returns the device hardware address (lowercase).
func (s *DeviceStatus) MAC() string { return s.mac }

// Name returns the device's configured name.
func (s *DeviceStatus) Name() string { return s.name }

// Available reports the device's last-known availability.
func (s *DeviceStatus) Available() bool { return s.available }

// SetStatus records whether the device was seen in the current scan.
//
// On a genuine transition (available flips) the transition time is reset and
// the message-sent flag cleared. Repeating the current state is a no-op.
func (s *DeviceStatus) SetStatus(available bool) {
	if available != s.available {
		s.available = available
		s.lastStatusTime = s.now()
		s.messageSent = false
	}
}

// timeout returns the debounce window for the current availability state.
func (s *DeviceStatus) timeout() time.Duration {
	if s.available {
		return s.availableTimeout
	}
	return s.unavailableTimeout
}

// HasTimeElapsed reports whether the debounce window since the last
// transition has passed.
//
// The emission path does not consult this: availability is re-announced
// every cycle so the broker's retained value can never go stale (see the
// package comment). The window is still tracked for operators watching
// debug logs.
func (s *DeviceStatus) HasTimeElapsed() bool {
	return s.now().Sub(s.lastStatusTime) > s.timeout()
}

// Payload returns the availability payload for the current state.
func (s *DeviceStatus) Payload() string {
	if s.available {
		return s.availablePayload
	}
	return s.unavailablePayload
}

// GenerateMessages emits the device's availability announcement.
//
// Exactly one retained <name>/LWT message per cycle, unconditionally.
func (s *DeviceStatus) GenerateMessages() []workers.Message {
	return []workers.Message{
		{
			Topic:   s.lwtTopic,
			Payload: []byte(s.Payload()),
			Retain:  true,
		},
	}
}
