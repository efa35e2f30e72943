// Package thermometer implements the gateway worker for ATC-flashed Xiaomi
// LYWSD03MMC thermometers.
//
// These devices broadcast their readings in a custom service-data structure
// (16-bit UUID 0x181A): temperature, humidity and battery ride along in every
// advertisement, so a passive scan is enough to read them; no connection is
// ever made.
//
// # Update cycle
//
// Each cycle the worker runs one BLE scan, resolves the discovered addresses
// against its configured device list, and emits per device:
//
//   - a retained availability message on <name>/LWT, every cycle
//   - a retained state message on <name>/state when a valid payload was decoded
//   - four retained Home Assistant discovery messages on
//     <name>/<field>/config, once per device per process lifetime
//
// Topics are relative to the worker's topic prefix; the gateway prepends the
// global prefix at publish time. Discovery payloads embed fully-prefixed
// topics because Home Assistant resolves them without gateway context.
//
// # Failure policy
//
// A failed scan is logged and the cycle returns an empty batch; malformed
// advertisements are skipped silently. Nothing in this package retries.
package thermometer
