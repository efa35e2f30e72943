package ble

import (
	"bytes"
	"testing"

	goble "github.com/go-ble/ble"
)

// fakeAdvertisement implements goble.Advertisement for conversion tests.
type fakeAdvertisement struct {
	addr        string
	rssi        int
	localName   string
	mfgData     []byte
	serviceData []goble.ServiceData
}

func (f *fakeAdvertisement) LocalName() string                { return f.localName }
func (f *fakeAdvertisement) ManufacturerData() []byte         { return f.mfgData }
func (f *fakeAdvertisement) ServiceData() []goble.ServiceData { return f.serviceData }
func (f *fakeAdvertisement) Services() []goble.UUID           { return nil }
func (f *fakeAdvertisement) OverflowService() []goble.UUID    { return nil }
func (f *fakeAdvertisement) TxPowerLevel() int                { return 0 }
func (f *fakeAdvertisement) Connectable() bool                { return false }
func (f *fakeAdvertisement) SolicitedService() []goble.UUID   { return nil }
func (f *fakeAdvertisement) RSSI() int                        { return f.rssi }
func (f *fakeAdvertisement) Addr() goble.Addr                 { return goble.NewAddr(f.addr) }

func TestNewAdvertisement(t *testing.T) {
	adv := newAdvertisement(&fakeAdvertisement{
		addr:      "A4:C1:38:11:22:33",
		rssi:      -58,
		localName: "ATC_112233",
		mfgData:   []byte{0x4c, 0x00},
		serviceData: []goble.ServiceData{
			{UUID: goble.UUID{0x1a, 0x18}, Data: []byte{0xa4, 0xc1, 0x38, 0x11, 0x22, 0x33, 0x00, 0xfa, 0x32, 0x64}},
		},
	})

	if adv.Addr != "a4:c1:38:11:22:33" {
		t.Errorf("Addr = %q, want lowercase a4:c1:38:11:22:33", adv.Addr)
	}
	if adv.RSSI != -58 {
		t.Errorf("RSSI = %d, want -58", adv.RSSI)
	}
	if got := adv.Field(FieldLocalName); string(got) != "ATC_112233" {
		t.Errorf("local name field = %q, want ATC_112233", got)
	}
	if got := adv.Field(FieldManufacturerData); !bytes.Equal(got, []byte{0x4c, 0x00}) {
		t.Errorf("manufacturer data = %x", got)
	}

	// Service data is reassembled in wire form: UUID (little-endian)
	// followed by the payload.
	want := []byte{0x1a, 0x18, 0xa4, 0xc1, 0x38, 0x11, 0x22, 0x33, 0x00, 0xfa, 0x32, 0x64}
	if got := adv.Field(FieldServiceData16); !bytes.Equal(got, want) {
		t.Errorf("service data = %x, want %x", got, want)
	}
}

func TestFieldAbsent(t *testing.T) {
	adv := newAdvertisement(&fakeAdvertisement{addr: "a4:c1:38:11:22:33"})

	if got := adv.Field(FieldServiceData16); got != nil {
		t.Errorf("absent field = %x, want nil", got)
	}
	if got := adv.Field(FieldLocalName); got != nil {
		t.Errorf("empty local name stored as field: %q", got)
	}
}

func TestMergeOverwrites(t *testing.T) {
	adv := newAdvertisement(&fakeAdvertisement{
		addr: "a4:c1:38:11:22:33",
		rssi: -80,
		serviceData: []goble.ServiceData{
			{UUID: goble.UUID{0x1a, 0x18}, Data: []byte{0x01}},
		},
	})

	adv.merge(&fakeAdvertisement{
		addr:      "a4:c1:38:11:22:33",
		rssi:      -55,
		localName: "ATC_112233",
		serviceData: []goble.ServiceData{
			{UUID: goble.UUID{0x1a, 0x18}, Data: []byte{0x02}},
		},
	})

	if adv.RSSI != -55 {
		t.Errorf("RSSI after merge = %d, want most recent -55", adv.RSSI)
	}
	want := []byte{0x1a, 0x18, 0x02}
	if got := adv.Field(FieldServiceData16); !bytes.Equal(got, want) {
		t.Errorf("service data after merge = %x, want %x", got, want)
	}
	if got := adv.Field(FieldLocalName); string(got) != "ATC_112233" {
		t.Errorf("local name after merge = %q, want ATC_112233", got)
	}
}

func TestMergeKeepsEarlierFields(t *testing.T) {
	adv := newAdvertisement(&fakeAdvertisement{
		addr:      "a4:c1:38:11:22:33",
		localName: "ATC_112233",
	})

	// A scan-response carrying no name must not erase the earlier one.
	adv.merge(&fakeAdvertisement{addr: "a4:c1:38:11:22:33", rssi: -62})

	if got := adv.Field(FieldLocalName); string(got) != "ATC_112233" {
		t.Errorf("local name after sparse merge = %q, want ATC_112233", got)
	}
}

func TestMergeIgnoresWideUUIDs(t *testing.T) {
	adv := newAdvertisement(&fakeAdvertisement{
		addr: "a4:c1:38:11:22:33",
		serviceData: []goble.ServiceData{
			{UUID: goble.UUID{0x01, 0x02, 0x03, 0x04}, Data: []byte{0xff}},
		},
	})

	if got := adv.Field(FieldServiceData16); got != nil {
		t.Errorf("128-bit service data stored as 16-bit field: %x", got)
	}
}
