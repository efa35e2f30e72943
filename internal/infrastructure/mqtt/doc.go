// Package mqtt provides the MQTT client for the gateway.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Message publishing with timeouts and QoS
//   - Last Will and Testament (LWT) on the gateway availability topic
//   - Connection health monitoring
//
// # Architecture
//
// The gateway is a pure publisher: workers produce message batches and the
// gateway pushes them to the broker. There is no subscription surface; the
// bridge carries device state outward only.
//
//	BLE devices → workers → gateway → MQTT broker → Home Assistant
//
// # Security Considerations
//
//   - Enable TLS for brokers outside the local segment (mqtt.broker.tls)
//   - Credentials come from config/environment, never hardcoded
//   - Payloads are not encrypted beyond TLS transport
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT, clientID, "home/gateway/LWT")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	client.PublishRetained("home/thermometer/living_room/state", payload)
package mqtt
