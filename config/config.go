package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Record        RecordConfig `yaml:"record"`
	EnableMetrics bool         `yaml:"enable_metrics"` // Enable metrics collection
}

// Holds record layer configuration.
type RecordConfig struct {
	Enable        bool `yaml:"enable"`          // Enable payload compression
	MaxRecordSize int  `yaml:"max_record_size"` // Negotiated maximum record payload size
	Level         int  `yaml:"level"`           // Compression level (1-9)
	WindowBits    int  `yaml:"window_bits"`     // Deflate history window (9-15)
	MemLevel      int  `yaml:"mem_level"`       // Deflate memory level (1-9)
}

// Returns a Config struct with reasonable default values. The maximum
// record size matches the TLS record payload ceiling.
func DefaultConfig() *Config {
	return &Config{
		EnableMetrics: true,
		Record: RecordConfig{
			Enable:        true,
			Level:         6,
			MemLevel:      8,
			WindowBits:    15,
			MaxRecordSize: 16384, // 2^14
		},
	}
}

// Loads configuration from a YAML file.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config

	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func validateConfig(config *Config) error {
	if config.Record.MaxRecordSize <= 0 {
		return fmt.Errorf("max_record_size must be greater than 0")
	}

	if config.Record.Level < 1 || config.Record.Level > 9 {
		return fmt.Errorf("level must be between 1 and 9")
	}

	if config.Record.WindowBits < 9 || config.Record.WindowBits > 15 {
		return fmt.Errorf("window_bits must be between 9 and 15")
	}

	if config.Record.MemLevel < 1 || config.Record.MemLevel > 9 {
		return fmt.Errorf("mem_level must be between 1 and 9")
	}

	return nil
}
