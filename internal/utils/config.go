package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/benmeehan/procstat-agent/internal/constants"
	"github.com/benmeehan/procstat-agent/internal/sinks"
	"github.com/benmeehan/procstat-agent/pkg/file"
	"github.com/benmeehan/procstat-agent/pkg/logger"
	"github.com/benmeehan/procstat-agent/pkg/mqtt"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration written to and read from YAML as "1s", "500ms".
type Duration struct {
	time.Duration
}

// UnmarshalYAML accepts a Go duration string or an integer number of seconds.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	if parsed, err := time.ParseDuration(s); err == nil {
		d.Duration = parsed
		return nil
	}
	var secs int64
	if err := value.Decode(&secs); err != nil {
		return fmt.Errorf("invalid duration %q", s)
	}
	d.Duration = time.Duration(secs) * time.Second
	return nil
}

// MarshalYAML writes the duration in its string form.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Config represents the structure of the configuration file.
type Config struct {
	Agent struct {
		Hostname     string   `yaml:"hostname"`       // Overrides the hostname read from the OS
		Interval     Duration `yaml:"interval"`       // Pause between two sampling ticks
		CPUProcCount int      `yaml:"cpu_proc_count"` // Number of top CPU consumers reported per tick
		MemProcCount int      `yaml:"mem_proc_count"` // Number of top memory consumers reported per tick
	} `yaml:"agent"`

	Sampler struct {
		Source   string   `yaml:"source"`    // Process source: ps or gopsutil
		PSBinary string   `yaml:"ps_binary"` // Path or name of the ps utility
		Timeout  Duration `yaml:"timeout"`   // Bound on one ps invocation, 0 for none
	} `yaml:"sampler"`

	Sink struct {
		Type string `yaml:"type"` // Sink backend: influxdb or mqtt

		InfluxDB struct {
			Host       string   `yaml:"host"`           // InfluxDB host
			Port       int      `yaml:"port"`           // InfluxDB HTTP port
			Auth       *bool    `yaml:"auth,omitempty"` // Send credentials, defaults to true
			Username   string   `yaml:"username"`       // InfluxDB user
			Password   string   `yaml:"password"`       // InfluxDB password
			Database   string   `yaml:"database"`       // Database created on startup and written to
			Timeout    Duration `yaml:"timeout"`        // HTTP client timeout, 0 for none
			MinVersion string   `yaml:"min_version"`    // Minimum accepted server version, empty to skip the check
		} `yaml:"influxdb"`

		MQTT struct {
			Broker        string `yaml:"broker"`         // MQTT broker address
			ClientID      string `yaml:"client_id"`      // MQTT client ID prefix
			Username      string `yaml:"username"`       // MQTT username
			Password      string `yaml:"password"`       // MQTT password
			CACertificate string `yaml:"ca_certificate"` // Path to the CA certificate
			Topic         string `yaml:"topic"`          // Topic the point batches are published on
			QOS           int    `yaml:"qos"`            // MQTT QoS level for point batches
		} `yaml:"mqtt"`
	} `yaml:"sink"`

	Stats struct {
		Interval Duration `yaml:"interval"` // Period of the counter report, 0 disables it
	} `yaml:"stats"`

	Logging logger.Options `yaml:"logging"`
}

// DefaultConfig returns a configuration with every default applied.
func DefaultConfig() *Config {
	config := &Config{}
	config.ApplyDefaults()
	return config
}

// ApplyDefaults fills every unset field with its default value.
func (c *Config) ApplyDefaults() {
	if c.Agent.Interval.Duration == 0 {
		c.Agent.Interval.Duration = constants.DefaultInterval
	}
	if c.Agent.CPUProcCount == 0 {
		c.Agent.CPUProcCount = constants.DefaultProcCount
	}
	if c.Agent.MemProcCount == 0 {
		c.Agent.MemProcCount = constants.DefaultProcCount
	}

	if c.Sampler.Source == "" {
		c.Sampler.Source = constants.SourcePS
	}
	if c.Sampler.PSBinary == "" {
		c.Sampler.PSBinary = constants.DefaultPSBinary
	}

	if c.Sink.Type == "" {
		c.Sink.Type = constants.SinkInfluxDB
	}

	influx := &c.Sink.InfluxDB
	if influx.Host == "" {
		influx.Host = constants.DefaultInfluxHost
	}
	if influx.Port == 0 {
		influx.Port = constants.DefaultInfluxPort
	}
	if c.InfluxAuthEnabled() {
		if influx.Username == "" {
			influx.Username = constants.DefaultInfluxUsername
		}
		if influx.Password == "" {
			influx.Password = constants.DefaultInfluxPassword
		}
	}
	if influx.Database == "" {
		influx.Database = constants.DefaultInfluxDatabase
	}
	if influx.MinVersion == "" {
		influx.MinVersion = constants.DefaultInfluxMinVersion
	}

	broker := &c.Sink.MQTT
	if broker.Broker == "" {
		broker.Broker = constants.DefaultMQTTBroker
	}
	if broker.ClientID == "" {
		broker.ClientID = constants.DefaultMQTTClientID
	}
	if broker.Topic == "" {
		broker.Topic = constants.DefaultMQTTTopic
	}

	c.Logging.ApplyDefaults()
}

// Validate reports every invalid setting. A configuration that fails
// validation must stop the agent before sampling starts.
func (c *Config) Validate() error {
	var errs []error

	if c.Agent.Interval.Duration <= 0 {
		errs = append(errs, errors.New("agent.interval must be positive"))
	}
	if c.Agent.CPUProcCount < 0 {
		errs = append(errs, errors.New("agent.cpu_proc_count must not be negative"))
	}
	if c.Agent.MemProcCount < 0 {
		errs = append(errs, errors.New("agent.mem_proc_count must not be negative"))
	}

	switch c.Sampler.Source {
	case constants.SourcePS, constants.SourceGopsutil:
	default:
		errs = append(errs, fmt.Errorf("unknown sampler.source %q", c.Sampler.Source))
	}
	if c.Sampler.Timeout.Duration < 0 {
		errs = append(errs, errors.New("sampler.timeout must not be negative"))
	}

	switch c.Sink.Type {
	case constants.SinkInfluxDB:
		if c.Sink.InfluxDB.Port <= 0 || c.Sink.InfluxDB.Port > 65535 {
			errs = append(errs, fmt.Errorf("invalid sink.influxdb.port %d", c.Sink.InfluxDB.Port))
		}
		if c.Sink.InfluxDB.Timeout.Duration < 0 {
			errs = append(errs, errors.New("sink.influxdb.timeout must not be negative"))
		}
	case constants.SinkMQTT:
		if c.Sink.MQTT.QOS < 0 || c.Sink.MQTT.QOS > 2 {
			errs = append(errs, fmt.Errorf("invalid sink.mqtt.qos %d", c.Sink.MQTT.QOS))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown sink.type %q", c.Sink.Type))
	}

	if c.Stats.Interval.Duration < 0 {
		errs = append(errs, errors.New("stats.interval must not be negative"))
	}
	if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("invalid logging.level %q", c.Logging.Level))
	}

	return errors.Join(errs...)
}

// InfluxAuthEnabled reports whether credentials are sent to InfluxDB. Unset
// means enabled.
func (c *Config) InfluxAuthEnabled() bool {
	return c.Sink.InfluxDB.Auth == nil || *c.Sink.InfluxDB.Auth
}

// InfluxOptions returns the InfluxDB sink settings. Credentials are left
// empty when auth is disabled.
func (c *Config) InfluxOptions() sinks.InfluxOptions {
	i := c.Sink.InfluxDB
	if !c.InfluxAuthEnabled() {
		i.Username, i.Password = "", ""
	}
	return sinks.InfluxOptions{
		Host:       i.Host,
		Port:       i.Port,
		Username:   i.Username,
		Password:   i.Password,
		Database:   i.Database,
		Timeout:    i.Timeout.Duration,
		MinVersion: i.MinVersion,
	}
}

// MQTTOptions returns the broker settings with the given unique client id.
func (c *Config) MQTTOptions(clientID string) mqtt.Options {
	m := c.Sink.MQTT
	return mqtt.Options{
		Broker:        m.Broker,
		ClientID:      clientID,
		Username:      m.Username,
		Password:      m.Password,
		CACertificate: m.CACertificate,
	}
}

// LoadConfig loads the YAML configuration from the specified file, applies
// defaults and validates the result.
func LoadConfig(filename string, fileClient file.FileOperations) (*Config, error) {
	var config Config
	if err := fileClient.ReadYamlFile(filename, &config); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", filename, err)
	}

	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", filename, err)
	}

	return &config, nil
}
