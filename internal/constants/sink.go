package constants

// Sink types
const (
	SinkInfluxDB = "influxdb"
	SinkMQTT     = "mqtt"
)

// InfluxDB defaults
const (
	DefaultInfluxHost       = "127.0.0.1"
	DefaultInfluxPort       = 8086
	DefaultInfluxUsername   = "root"
	DefaultInfluxPassword   = "root"
	DefaultInfluxDatabase   = "stats_by_process"
	DefaultInfluxMinVersion = "1.0.0"
	// InfluxPrecision matches the second-precision point timestamps.
	InfluxPrecision = "s"
)

// MQTT defaults
const (
	DefaultMQTTBroker   = "tcp://127.0.0.1:1883"
	DefaultMQTTClientID = "procstat-agent"
	DefaultMQTTTopic    = "procstat/points"
	// MQTTDisconnectQuiesce is the grace period in milliseconds on disconnect.
	MQTTDisconnectQuiesce = 250
)
