// Package config provides configuration management for the gesture engine.
package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"tridrag/internal/gesture"
)

// Settings represents the application configuration
type Settings struct {
	// Gesture contains the recognizer and arbiter settings.
	Gesture gesture.Configuration `json:"gesture"`

	// General contains general application settings
	General GeneralSettings `json:"general"`
}

// GeneralSettings contains general application settings
type GeneralSettings struct {
	// Enabled toggles gesture handling at startup.
	Enabled bool `json:"enabled"`

	// DevicePath is the pointer device to intercept (e.g. /dev/input/event3).
	DevicePath string `json:"device_path,omitempty"`

	// StreamAddr is the listen address of the frame stream server.
	StreamAddr string `json:"stream_addr,omitempty"`

	// UDPAddr is the listen address of the low-latency UDP frame receiver.
	// Empty disables it.
	UDPAddr string `json:"udp_addr,omitempty"`

	// StreamToken is an optional authentication token for frame sources.
	StreamToken string `json:"stream_token,omitempty"`

	// SynthDeviceName is the virtual pointer device name.
	SynthDeviceName string `json:"synth_device_name,omitempty"`

	// PixelRange converts normalized drag deltas into pixels.
	PixelRange float64 `json:"pixel_range,omitempty"`
}

// DefaultSettings returns Settings with sensible defaults
func DefaultSettings() *Settings {
	return &Settings{
		Gesture: gesture.DefaultConfiguration(),
		General: GeneralSettings{
			Enabled:         true,
			StreamAddr:      "127.0.0.1:18181",
			SynthDeviceName: "tridrag virtual pointer",
			PixelRange:      1000,
		},
	}
}

// Manager handles loading and saving configuration
type Manager struct {
	mu         sync.Mutex
	configPath string
	settings   *Settings
	onChanged  func()
}

// NewManager creates a new configuration manager
func NewManager() (*Manager, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	return &Manager{
		configPath: configPath,
		settings:   DefaultSettings(),
	}, nil
}

// getConfigPath returns the path to the configuration file
func getConfigPath() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, "Library", "Application Support", "tridrag")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		configDir = filepath.Join(appData, "tridrag")
	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, ".config", "tridrag")
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", err
	}

	return filepath.Join(configDir, "config.json"), nil
}

// Load reads the configuration from disk
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.configPath)
	if os.IsNotExist(err) {
		// No config file, use defaults
		return nil
	}
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, m.settings); err != nil {
		return err
	}
	if m.settings.Gesture.TapThreshold <= 0 {
		m.settings.Gesture.TapThreshold = 300 * time.Millisecond
	}
	if m.onChanged != nil {
		m.onChanged()
	}
	return nil
}

// Save writes the configuration to disk
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := json.MarshalIndent(m.settings, "", "  ")
	if err != nil {
		return err
	}

	log.Printf("Config: saving configuration to %s (%d bytes)", m.configPath, len(data))
	return os.WriteFile(m.configPath, data, 0644)
}

// Get returns the current settings
func (m *Manager) Get() *Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings
}

// Set replaces the settings wholesale; there is no partial-field protocol.
func (m *Manager) Set(settings *Settings) {
	m.mu.Lock()
	m.settings = settings
	m.mu.Unlock()
	if m.onChanged != nil {
		m.onChanged()
	}
}

// Gesture returns a copy of the gesture configuration for one frame's use.
func (m *Manager) Gesture() gesture.Configuration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings.Gesture
}

// RegisterChangeCallback registers a function to be called when config changes
func (m *Manager) RegisterChangeCallback(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChanged = fn
}
