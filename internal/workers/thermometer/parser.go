package thermometer

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"

	"github.com/leskowicz/bt-mqtt-gateway/internal/ble"
	"github.com/leskowicz/bt-mqtt-gateway/internal/workers"
)

// ATC custom advertising format, carried as 16-bit-UUID service data:
//
//	bytes 0-1   service UUID 0x181A (little-endian: 0x1a 0x18)
//	bytes 2-7   device MAC (informational; the link-layer address is used
//	            for matching)
//	bytes 8-9   temperature, int16 big-endian, 0.1°C units
//	byte  10    humidity, integer percent
//	byte  11    battery, integer percent
const atcPayloadLen = 12

// atcServicePrefix is the environmental-sensing UUID in wire order.
var atcServicePrefix = []byte{0x1a, 0x18}

// Reading is one decoded advertisement. Ephemeral: derived per scan,
// published, never stored.
type Reading struct {
	MAC         string  `json:"-"`
	Temperature float64 `json:"temperature"`
	Humidity    int     `json:"humidity"`
	Battery     int     `json:"battery"`
	RSSI        int     `json:"rssi"`
}

// decodeServiceData decodes an ATC service-data payload. It reports false
// for payloads that are too short or carry a different service UUID; the
// caller emits nothing in that case.
func decodeServiceData(data []byte) (Reading, bool) {
	if len(data) < atcPayloadLen {
		return Reading{}, false
	}
	if !bytes.Equal(data[:2], atcServicePrefix) {
		return Reading{}, false
	}

	return Reading{
		MAC:         hex.EncodeToString(data[2:8]),
		Temperature: float64(int16(binary.BigEndian.Uint16(data[8:10]))) / 10,
		Humidity:    int(data[10]),
		Battery:     int(data[11]),
	}, true
}

// parsePayload turns one discovered device's advertisement into state and
// availability messages.
//
// It re-checks presence and payload validity independently of the status
// bookkeeping: state messages only appear when a valid ATC payload was
// actually decoded, while the plain availability announcement from
// DeviceStatus is emitted either way.
func (w *Worker) parsePayload(dev *ble.Advertisement, name string) []workers.Message {
	if dev == nil {
		return nil
	}

	reading, ok := decodeServiceData(dev.Field(ble.FieldServiceData16))
	if !ok {
		return nil
	}
	reading.RSSI = dev.RSSI

	w.logDebug("decoded reading",
		"device", name,
		"mac", reading.MAC,
		"temperature", reading.Temperature,
		"humidity", reading.Humidity,
		"battery", reading.Battery,
		"rssi", reading.RSSI,
	)

	payload, err := json.Marshal(reading)
	if err != nil {
		return nil
	}

	return []workers.Message{
		{
			Topic:   w.formatTopic(name, "state"),
			Payload: payload,
			Retain:  true,
		},
		{
			Topic:   w.formatTopic(name, "LWT"),
			Payload: []byte(w.cfg.AvailablePayload),
			Retain:  true,
		},
	}
}
