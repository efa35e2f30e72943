// Package config handles loading and validating gateway configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables (a .env file is honoured)
//   - Validation of required fields
//   - Default value handling
//
// Worker sections are strongly-typed structs with enumerated fields,
// validated at load time. Workers never see a loose settings map; the
// thermometer worker receives a fully populated ThermometerConfig.
//
// Security Considerations:
//   - MQTT credentials should be set via BTMQTTGW_MQTT_USERNAME and
//     BTMQTTGW_MQTT_PASSWORD rather than the YAML file
//   - The config file should have restricted permissions (0600)
//   - MQTTConfig.String() masks the password for safe logging
//
// Performance Characteristics:
//   - Configuration is loaded once at startup
//   - No runtime overhead after initial load
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Gateway.ID)
package config
