package ble

import (
	"strings"

	goble "github.com/go-ble/ble"
)

// Advertising-data type identifiers (Bluetooth Assigned Numbers, "Generic
// Access Profile"). Only the types workers decode are listed.
const (
	// FieldLocalName is the Complete Local Name AD structure (0x09).
	FieldLocalName uint8 = 0x09

	// FieldServiceData16 is the Service Data - 16-bit UUID AD structure
	// (0x16, decimal 22). The first two bytes are the service UUID in
	// little-endian order, followed by the service payload.
	FieldServiceData16 uint8 = 0x16

	// FieldManufacturerData is the Manufacturer Specific Data AD
	// structure (0xFF).
	FieldManufacturerData uint8 = 0xFF
)

// Advertisement is one device's advertisement as observed during a scan
// window. When a device advertises more than once in a window, fields from
// later advertisements are merged over earlier ones and RSSI reflects the
// most recent observation.
type Advertisement struct {
	// Addr is the device hardware address, lowercase, colon-separated.
	Addr string

	// RSSI is the received signal strength in dBm.
	RSSI int

	// Fields holds raw advertising-data structures keyed by AD type.
	Fields map[uint8][]byte
}

// Field returns the raw bytes of the advertising-data structure with the
// given AD type, or nil if the advertisement does not carry it.
func (a *Advertisement) Field(typ uint8) []byte {
	return a.Fields[typ]
}

// newAdvertisement converts a go-ble advertisement into the package's
// stack-independent representation.
func newAdvertisement(adv goble.Advertisement) *Advertisement {
	a := &Advertisement{
		Addr:   strings.ToLower(adv.Addr().String()),
		RSSI:   adv.RSSI(),
		Fields: make(map[uint8][]byte),
	}
	a.merge(adv)
	return a
}

// merge folds a later advertisement from the same device into a.
func (a *Advertisement) merge(adv goble.Advertisement) {
	a.RSSI = adv.RSSI()

	if name := adv.LocalName(); name != "" {
		a.Fields[FieldLocalName] = []byte(name)
	}
	if md := adv.ManufacturerData(); len(md) > 0 {
		a.Fields[FieldManufacturerData] = md
	}
	// Reassemble service data into its wire form: UUID (little-endian)
	// followed by the service payload. Vendor decoders match on the
	// leading UUID bytes.
	for _, sd := range adv.ServiceData() {
		if len(sd.UUID) != 2 {
			continue
		}
		data := make([]byte, 0, len(sd.UUID)+len(sd.Data))
		data = append(data, sd.UUID...)
		data = append(data, sd.Data...)
		a.Fields[FieldServiceData16] = data
	}
}
