package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// FileName is the name of the config file inside the config directory.
const FileName = "config.yaml"

// DeviceConfig binds a pair of MIDI ports to a mapping for the monitor
type DeviceConfig struct {
	ID      string `yaml:"id"`       // Unique identifier
	Name    string `yaml:"name"`     // User-friendly name
	InPort  string `yaml:"in_port"`  // MIDI input port name
	OutPort string `yaml:"out_port"` // MIDI output port name
	Mapping string `yaml:"mapping"`  // Mapping name, e.g. Behringer-CMD-DV1
}

// NewDeviceConfig creates a new device config with a generated ID
func NewDeviceConfig() DeviceConfig {
	return DeviceConfig{
		ID:   uuid.New().String(),
		Name: "New Device",
	}
}

// Config holds application configuration
type Config struct {
	ScriptsDir    string         `yaml:"scripts_dir"`
	PresetsDir    string         `yaml:"presets_dir"`
	StampInfo     bool           `yaml:"stamp_info"`     // write "Generated on" into the preset info
	OnColor       int            `yaml:"on_color"`       // on value of generated outputs
	OutputMinimum float64        `yaml:"output_minimum"` // minimum of generated outputs
	Devices       []DeviceConfig `yaml:"devices"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	return &Config{
		ScriptsDir:    "scripts",
		PresetsDir:    "presets",
		StampInfo:     true,
		OnColor:       0x01,
		OutputMinimum: 0.5,
		Devices:       []DeviceConfig{},
	}
}

// configDir returns the platform-appropriate config directory
func configDir() (string, error) {
	configHome, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configHome, "gopher-mixxx"), nil
}

// ConfigPath returns the full path to the default config file
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Load reads the config at path, or at ConfigPath when path is empty.
// Missing files yield the defaults; keys absent from the file keep their
// default value.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		if path, err = ConfigPath(); err != nil {
			return nil, err
		}
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	// Ensure slices are not nil
	if cfg.Devices == nil {
		cfg.Devices = []DeviceConfig{}
	}
	return cfg, nil
}

// Save writes the config to path
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// PresetPath returns the preset file of a mapping
func (c *Config) PresetPath(name string) string {
	return filepath.Join(c.PresetsDir, name+".midi.xml")
}

// ScriptPath returns the legacy script file of a mapping
func (c *Config) ScriptPath(name string) string {
	return filepath.Join(c.ScriptsDir, name+".js")
}

// AddDevice adds a new device to the config
func (c *Config) AddDevice(device DeviceConfig) {
	c.Devices = append(c.Devices, device)
}

// RemoveDevice removes a device by ID
func (c *Config) RemoveDevice(id string) {
	for i, d := range c.Devices {
		if d.ID == id {
			c.Devices = append(c.Devices[:i], c.Devices[i+1:]...)
			return
		}
	}
}

// GetDevice returns a device by ID or name, or nil if not found
func (c *Config) GetDevice(idOrName string) *DeviceConfig {
	for i := range c.Devices {
		if c.Devices[i].ID == idOrName || c.Devices[i].Name == idOrName {
			return &c.Devices[i]
		}
	}
	return nil
}
