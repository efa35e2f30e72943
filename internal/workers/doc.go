// Package workers defines the contract between the gateway and its device
// workers.
//
// A worker wraps one class of Bluetooth device. The gateway invokes each
// worker's Update method on a schedule; the worker performs one scan/poll
// cycle and returns an ordered batch of messages for the gateway to publish.
//
// Workers expose exactly two seams: a constructor taking validated
// configuration, and the Update method. Scheduling, topic prefixing, and
// publishing belong to the gateway.
package workers
