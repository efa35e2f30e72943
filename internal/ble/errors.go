package ble

import "errors"

// Domain errors for the BLE package.
var (
	// ErrDeviceUnavailable is returned when the HCI device cannot be opened.
	ErrDeviceUnavailable = errors.New("ble: hci device unavailable")

	// ErrScanFailed is returned when a scan aborts before its window elapses.
	ErrScanFailed = errors.New("ble: scan failed")
)
