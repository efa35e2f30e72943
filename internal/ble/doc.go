// Package ble wraps the go-ble stack into the one primitive the gateway's
// workers need: a blocking scan that returns the advertisements observed
// during a fixed window.
//
// Advertisements are exposed with their raw advertising-data structures keyed
// by numeric AD type (e.g. 22 for 16-bit-UUID service data), so workers can
// decode vendor payloads without depending on the BLE stack themselves.
//
// The scan call blocks for the full window; the only cancellation hook is the
// caller's context. The HCI device is opened lazily on the first scan, which
// is also when the passive/active scan type is applied.
package ble
