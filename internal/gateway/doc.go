// Package gateway implements the host framework around the device workers.
//
// The gateway owns everything the workers do not: it schedules each worker's
// update cycle on its configured interval, prefixes the returned topics with
// the global topic prefix, publishes the batches to the MQTT broker in
// order, and reports its own status periodically.
//
//	workers → gateway → MQTT broker
//
// Each worker runs on its own goroutine but a worker only ever sees one
// Update call at a time; worker-internal state needs no locking.
//
// Publish failures are logged and counted, never fatal: retained topics are
// rewritten on the next cycle anyway.
package gateway
