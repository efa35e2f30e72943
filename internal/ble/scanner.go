package ble

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	goble "github.com/go-ble/ble"
	"github.com/go-ble/ble/linux"
	"github.com/go-ble/ble/linux/hci/cmd"
)

// LE scan parameters in 0.625ms units.
const (
	scanInterval = 0x0060 // 60ms
	scanWindow   = 0x0030 // 30ms

	scanTypePassive = 0x00
	scanTypeActive  = 0x01
)

// DeviceFactory opens the HCI device. Overridable in tests.
var DeviceFactory = func(passive bool) (goble.Device, error) {
	scanType := uint8(scanTypeActive)
	if passive {
		scanType = scanTypePassive
	}
	return linux.NewDevice(goble.OptScanParams(cmd.LESetScanParameters{
		LEScanType:           scanType,
		LEScanInterval:       scanInterval,
		LEScanWindow:         scanWindow,
		OwnAddressType:       0x00,
		ScanningFilterPolicy: 0x00,
	}))
}

// Logger is the optional logging interface for the scanner.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
}

// Scanner performs blocking BLE discovery scans over one HCI device.
//
// The device is opened on the first call to Scan and reused afterwards.
// Scan calls are serialised: the HCI controller supports one discovery at
// a time.
type Scanner struct {
	mu      sync.Mutex
	device  goble.Device
	passive bool
	logger  Logger
}

// NewScanner creates a scanner. The HCI device is not opened until the
// first Scan call. Logger may be nil.
func NewScanner(logger Logger) *Scanner {
	return &Scanner{logger: logger}
}

// Scan runs one discovery scan for the given duration and returns every
// device observed, one Advertisement per address. The passive flag selects
// the LE scan type; it is applied when the HCI device is first opened and
// cannot change afterwards.
//
// A cleanly elapsed window is not an error. Transport failures are wrapped
// in ErrScanFailed.
func (s *Scanner) Scan(ctx context.Context, duration time.Duration, passive bool) ([]*Advertisement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureDevice(passive); err != nil {
		return nil, err
	}

	scanCtx, cancel := context.WithTimeout(ctx, duration)
	defer cancel()

	var (
		seenMu sync.Mutex
		seen   = make(map[string]*Advertisement)
		order  []string
	)
	handler := func(adv goble.Advertisement) {
		seenMu.Lock()
		defer seenMu.Unlock()

		addr := adv.Addr().String()
		if existing, ok := seen[addr]; ok {
			existing.merge(adv)
			return
		}
		a := newAdvertisement(adv)
		seen[addr] = a
		order = append(order, addr)
		s.logDebug("discovered device", "addr", a.Addr, "rssi", a.RSSI)
	}

	err := goble.Scan(scanCtx, false, handler, nil)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return nil, fmt.Errorf("%w: %w", ErrScanFailed, err)
	}

	seenMu.Lock()
	defer seenMu.Unlock()
	advs := make([]*Advertisement, 0, len(order))
	for _, addr := range order {
		advs = append(advs, seen[addr])
	}
	s.logDebug("scan window elapsed", "duration", duration, "devices", len(advs))
	return advs, nil
}

// ensureDevice opens the HCI device on first use.
func (s *Scanner) ensureDevice(passive bool) error {
	if s.device != nil {
		return nil
	}

	dev, err := DeviceFactory(passive)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDeviceUnavailable, err)
	}
	goble.SetDefaultDevice(dev)

	s.device = dev
	s.passive = passive
	s.logInfo("hci device opened", "passive", passive)
	return nil
}

// Close releases the HCI device.
func (s *Scanner) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.device == nil {
		return nil
	}
	err := s.device.Stop()
	s.device = nil
	if err != nil {
		return fmt.Errorf("ble: closing hci device: %w", err)
	}
	return nil
}

func (s *Scanner) logDebug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func (s *Scanner) logInfo(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}
