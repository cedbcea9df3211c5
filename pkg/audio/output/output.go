// ABOUTME: Audio output interface definitions
// ABOUTME: Device, context, buffer and source handles shared by all drivers
package output

import (
	"errors"

	"github.com/chime-audio/chime/pkg/audio"
)

// DefaultDevice selects the system default playback device
const DefaultDevice = ""

var (
	ErrUnknownDevice    = errors.New("unknown playback device")
	ErrDeviceBusy       = errors.New("playback device already open")
	ErrDeviceClosed     = errors.New("playback device closed")
	ErrContextDestroyed = errors.New("context destroyed")
	ErrInvalidHandle    = errors.New("invalid handle")
	ErrInvalidValue     = errors.New("invalid value")
	ErrBufferInUse      = errors.New("buffer attached to a source")
	ErrNoBuffer         = errors.New("no buffer attached")
)

// SourceState is the playback state of a source
type SourceState int

const (
	SourceInitial SourceState = iota
	SourcePlaying
	SourcePaused
	SourceStopped
)

func (s SourceState) String() string {
	switch s {
	case SourceInitial:
		return "initial"
	case SourcePlaying:
		return "playing"
	case SourcePaused:
		return "paused"
	case SourceStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Driver opens playback devices
type Driver interface {
	// OpenDevice opens the named device; DefaultDevice selects the default one
	OpenDevice(name string) (Device, error)
}

// Device is an opened playback endpoint
type Device interface {
	// CreateContext creates a rendering context bound to this device
	CreateContext() (Context, error)

	// Close releases the device
	Close() error
}

// Context is a rendering context that owns buffers and sources
type Context interface {
	// MakeCurrent activates the context for rendering
	MakeCurrent() error

	// ClearCurrent deactivates the context
	ClearCurrent() error

	// Destroy releases the context and anything it still owns
	Destroy() error

	// GenBuffer generates an empty buffer
	GenBuffer() (Buffer, error)

	// GenSource generates a stopped source with no buffer attached
	GenSource() (Source, error)
}

// Buffer holds PCM ready for playback
type Buffer interface {
	// Upload replaces the buffer contents with data in the given format and rate
	Upload(format audio.SampleFormat, data []byte, sampleRate int) error

	// Delete releases the buffer; it fails while a source still has it attached
	Delete() error
}

// Source is a playback voice
type Source interface {
	// Attach binds buf to the source, stopping any current playback
	Attach(buf Buffer) error

	// Play starts the attached buffer from the beginning
	Play() error

	// State reports the playback state
	State() (SourceState, error)

	// SetGain sets the playback gain (0.0 to 1.0)
	SetGain(gain float64) error

	// Stop halts playback
	Stop() error

	// Delete stops the source, detaches its buffer and releases it
	Delete() error
}
