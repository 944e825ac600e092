// Package config loads the carving options from a YAML file.
// Missing files fall back to the defaults, so a config file is always optional.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/esimov/carvers"
	"github.com/esimov/carvers/imop"
)

// Config represents the application configuration loaded from YAML.
type Config struct {
	// Reduce is the percentage of the image width to remove.
	Reduce uint `yaml:"reduce"`

	Energy struct {
		// Model is one of sobel, dual or lab.
		Model string `yaml:"model"`

		// Blur is the gaussian sigma applied before the Sobel operator.
		Blur float64 `yaml:"blur"`

		// Wrap makes the gradient models treat the image borders as a torus.
		Wrap bool `yaml:"wrap"`

		// Workers is the number of goroutines computing the energy map.
		Workers int `yaml:"workers"`
	} `yaml:"energy"`

	Protect struct {
		Mask       string  `yaml:"mask"`
		Face       bool    `yaml:"face"`
		Classifier string  `yaml:"classifier"`
		Angle      float64 `yaml:"angle"`
	} `yaml:"protect"`

	Output struct {
		// Debug writes an extra image showing the removed seams.
		Debug     bool   `yaml:"debug"`
		SeamColor string `yaml:"seamColor"`

		// Blend and Composite select how the seams are drawn over the image.
		Blend     string `yaml:"blend"`
		Composite string `yaml:"composite"`

		// Concurrency is the number of files processed at once in directory mode.
		Concurrency int `yaml:"concurrency"`

		// LogLevel is a zerolog level name.
		LogLevel string `yaml:"logLevel"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Energy.Model = string(carvers.Sobel)
	cfg.Energy.Workers = runtime.NumCPU()
	cfg.Output.SeamColor = carvers.DefaultSeamColor
	cfg.Output.Concurrency = runtime.NumCPU()
	cfg.Output.LogLevel = zerolog.InfoLevel.String()
	return cfg
}

// LoadConfig loads configuration from a YAML file.
// If the file doesn't exist, it returns the default configuration.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file.
func SaveConfig(cfg *Config, configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}

// Validate checks the values that cannot be corrected silently.
func (c *Config) Validate() error {
	if c.Reduce > 100 {
		return fmt.Errorf("reduce must be between 0 and 100, got %d", c.Reduce)
	}
	if _, err := carvers.ParseEnergyModel(c.Energy.Model); err != nil {
		return err
	}
	if c.Energy.Blur < 0 {
		return fmt.Errorf("blur must not be negative, got %v", c.Energy.Blur)
	}
	if _, err := zerolog.ParseLevel(c.Output.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Output.LogLevel, err)
	}
	if c.Output.Blend != "" {
		if err := imop.NewBlend().Set(c.Output.Blend); err != nil {
			return err
		}
	}
	if c.Output.Composite != "" {
		if err := imop.InitOp().Set(c.Output.Composite); err != nil {
			return err
		}
	}
	if c.Protect.Face && c.Protect.Classifier == "" {
		return fmt.Errorf("face protection requires a cascade classifier")
	}
	return nil
}

// Level returns the configured log level, defaulting to info.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.Output.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// Apply copies the carving options into the processor. The face detector is
// not loaded here; see carvers.LoadFaceDetector.
func (c *Config) Apply(p *carvers.Processor) error {
	model, err := carvers.ParseEnergyModel(c.Energy.Model)
	if err != nil {
		return err
	}
	p.Energy = model
	p.BlurRadius = c.Energy.Blur
	p.EdgeWrap = c.Energy.Wrap
	p.Workers = c.Energy.Workers
	p.MaskPath = c.Protect.Mask
	p.FaceDetect = c.Protect.Face
	p.FaceAngle = c.Protect.Angle
	p.Debug = c.Output.Debug
	p.SeamColor = c.Output.SeamColor
	p.SeamBlend = c.Output.Blend
	p.SeamComposite = c.Output.Composite
	return nil
}
