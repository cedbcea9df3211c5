// ABOUTME: Configuration loading for the chime CLI
// ABOUTME: Reads defaults, config files and CHIME_ environment variables through viper
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds host application settings
type Config struct {
	Audio   AudioConfig
	Logging LoggingConfig
}

// AudioConfig holds playback device settings
type AudioConfig struct {
	Device       string
	SampleRate   int
	Channels     int
	BufferSize   time.Duration
	PollInterval time.Duration
	Volume       float64
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level  string
	Format string
}

// ConfigError reports an invalid setting
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config %s: %s", e.Field, e.Message)
}

// SetDefaults registers default values on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("audio.device", "")
	v.SetDefault("audio.sample_rate", 44100)
	v.SetDefault("audio.channels", 2)
	v.SetDefault("audio.buffer_size", "100ms")
	v.SetDefault("audio.poll_interval", "1s")
	v.SetDefault("audio.volume", 1.0)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// New creates a viper instance with defaults, env binding and search paths.
// An explicit file path replaces the search paths.
func New(file string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix("chime")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		return v
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".chime"))
	}
	return v
}

// Read loads the config file if one exists. A missing file is not an error
// unless it was named explicitly.
func Read(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// Load decodes settings from v and validates them
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Audio: AudioConfig{
			Device:       v.GetString("audio.device"),
			SampleRate:   v.GetInt("audio.sample_rate"),
			Channels:     v.GetInt("audio.channels"),
			BufferSize:   v.GetDuration("audio.buffer_size"),
			PollInterval: v.GetDuration("audio.poll_interval"),
			Volume:       v.GetFloat64("audio.volume"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings the audio subsystem cannot work with
func (c *Config) Validate() error {
	if c.Audio.SampleRate <= 0 {
		return &ConfigError{Field: "audio.sample_rate", Message: fmt.Sprintf("must be positive, got %d", c.Audio.SampleRate)}
	}
	if c.Audio.Channels != 1 && c.Audio.Channels != 2 {
		return &ConfigError{Field: "audio.channels", Message: fmt.Sprintf("must be 1 or 2, got %d", c.Audio.Channels)}
	}
	if c.Audio.BufferSize < 0 {
		return &ConfigError{Field: "audio.buffer_size", Message: "must not be negative"}
	}
	if c.Audio.PollInterval <= 0 {
		return &ConfigError{Field: "audio.poll_interval", Message: "must be positive"}
	}
	if c.Audio.Volume <= 0 || c.Audio.Volume > 1 {
		return &ConfigError{Field: "audio.volume", Message: fmt.Sprintf("must be in (0, 1], got %g", c.Audio.Volume)}
	}
	return nil
}
