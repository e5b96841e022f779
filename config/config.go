// Package config loads the YAML configuration of the transducer service.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mklimuk/transducer/pressure"
)

const (
	AdapterMCP2221 = "mcp2221"
	AdapterGeneric = "generic"
	AdapterNanoPi  = "nanopi"
	AdapterSim     = "sim"
)

type Config struct {
	Bus    BusConfig    `yaml:"bus"`
	Sensor SensorConfig `yaml:"sensor"`
	MQTT   MQTTConfig   `yaml:"mqtt"`
	Kafka  KafkaConfig  `yaml:"kafka"`
	HTTP   HTTPConfig   `yaml:"http"`
}

type BusConfig struct {
	// Adapter selects the I2C transport: mcp2221, generic, nanopi or sim.
	Adapter string `yaml:"adapter"`
	// Device is the periph bus name, the gobot bus number or the MCP2221 index.
	Device  string `yaml:"device"`
	Address uint8  `yaml:"address"`
	SpeedHz int    `yaml:"speed_hz"`
}

type SensorConfig struct {
	Name           string        `yaml:"name"`
	Model          string        `yaml:"model"`
	Oversampling   bool          `yaml:"oversampling"`
	UpdateInterval time.Duration `yaml:"update_interval"`
	SetupAttempts  int           `yaml:"setup_attempts"`
	RetryPause     time.Duration `yaml:"retry_pause"`
}

type MQTTConfig struct {
	Broker      string `yaml:"broker"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	TopicPrefix string `yaml:"topic_prefix"`
	ClientID    string `yaml:"client_id"`
	Discovery   bool   `yaml:"discovery"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type HTTPConfig struct {
	Listen string `yaml:"listen"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Bus: BusConfig{
			Adapter: AdapterMCP2221,
			Address: pressure.DefaultAddress,
			SpeedHz: 100_000,
		},
		Sensor: SensorConfig{
			Name:           "ams5935",
			Model:          pressure.Model1000A.String(),
			UpdateInterval: 5 * time.Second,
			SetupAttempts:  10,
			RetryPause:     10 * time.Millisecond,
		},
		MQTT: MQTTConfig{
			TopicPrefix: "transducer",
			Discovery:   true,
		},
		Kafka: KafkaConfig{
			Topic: "transducer-readings",
		},
	}
}

// Load reads the file at path over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("could not parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	switch c.Bus.Adapter {
	case AdapterMCP2221, AdapterGeneric, AdapterNanoPi, AdapterSim:
	default:
		errs = append(errs, fmt.Errorf("bus.adapter: unsupported adapter %q", c.Bus.Adapter))
	}
	if c.Bus.Address > 0x7F {
		errs = append(errs, fmt.Errorf("bus.address: %#x is not a 7-bit address", c.Bus.Address))
	}
	if c.Bus.SpeedHz < 0 {
		errs = append(errs, fmt.Errorf("bus.speed_hz: must not be negative"))
	}
	if _, err := c.Sensor.ParsedModel(); err != nil {
		errs = append(errs, fmt.Errorf("sensor.model: %w", err))
	}
	if c.Sensor.Name == "" {
		errs = append(errs, errors.New("sensor.name: must not be empty"))
	}
	if c.Sensor.UpdateInterval <= 0 {
		errs = append(errs, errors.New("sensor.update_interval: must be positive"))
	}
	if c.Sensor.SetupAttempts <= 0 {
		errs = append(errs, errors.New("sensor.setup_attempts: must be positive"))
	}
	if c.Sensor.RetryPause < 0 {
		errs = append(errs, errors.New("sensor.retry_pause: must not be negative"))
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		errs = append(errs, errors.New("kafka.topic: required when brokers are set"))
	}
	return errors.Join(errs...)
}

// ParsedModel resolves the model name and rejects catalog entries with an
// unusable range.
func (s SensorConfig) ParsedModel() (pressure.Model, error) {
	m, err := pressure.ParseModel(s.Model)
	if err != nil {
		return 0, err
	}
	rng, _ := pressure.Lookup(m)
	if err := rng.Validate(); err != nil {
		return 0, fmt.Errorf("%s: %w", m, err)
	}
	return m, nil
}

func (s SensorConfig) Mode() pressure.Mode {
	if s.Oversampling {
		return pressure.ModeOversampled
	}
	return pressure.ModeSingle
}
