// ABOUTME: Subsystem configuration
// ABOUTME: Collaborators, polling cadence and limits with their defaults
package clip

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/chime-audio/chime/pkg/audio/decode"
	"github.com/chime-audio/chime/pkg/audio/output"
)

const (
	// DefaultPollInterval is how often Play checks whether a clip is still playing
	DefaultPollInterval = time.Second

	// DefaultMaxSamples caps the temporary decode buffer at 512 MiB of int16 samples
	DefaultMaxSamples = 1 << 28
)

// Config holds subsystem configuration
type Config struct {
	// Driver opens the playback device (default: oto at 44.1kHz stereo)
	Driver output.Driver

	// Decoder opens clip files (default: WAV, FLAC, Ogg Vorbis and MP3)
	Decoder decode.Opener

	// DeviceName selects the playback device (default: system default)
	DeviceName string

	// PollInterval is the playback state polling period (default: 1s)
	PollInterval time.Duration

	// Gain is the source gain in (0, 1] (default: 1.0)
	Gain float64

	// MaxSamples limits the samples decoded for a single clip
	MaxSamples int64

	// Logger receives stage and failure logs (default: log.Default())
	Logger *log.Logger
}

// withDefaults returns a copy of c with unset fields filled in
func (c Config) withDefaults() Config {
	if c.Logger == nil {
		c.Logger = log.Default()
	}
	if c.Driver == nil {
		c.Driver = output.NewOto(output.OtoConfig{Logger: c.Logger})
	}
	if c.Decoder == nil {
		c.Decoder = decode.NewRegistry()
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.Gain == 0 {
		c.Gain = 1.0
	}
	if c.MaxSamples <= 0 {
		c.MaxSamples = DefaultMaxSamples
	}
	return c
}
