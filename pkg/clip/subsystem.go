// ABOUTME: Audio subsystem lifecycle
// ABOUTME: Opens the device, creates and activates a context, and tears them down
package clip

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/chime-audio/chime/pkg/audio/decode"
	"github.com/chime-audio/chime/pkg/audio/output"
	"github.com/google/uuid"
	"go.uber.org/multierr"
)

// Subsystem owns a playback device, its context and the clips loaded on it
type Subsystem struct {
	config  Config
	logger  *log.Logger
	decoder decode.Opener

	device  output.Device
	context output.Context

	mu     sync.Mutex
	clips  map[uuid.UUID]*Clip
	closed bool
}

// Init opens the configured device, creates a context and makes it current.
// If a step fails, everything acquired before it is released.
func Init(config Config) (*Subsystem, error) {
	config = config.withDefaults()
	s := &Subsystem{
		config:  config,
		logger:  config.Logger,
		decoder: config.Decoder,
		clips:   make(map[uuid.UUID]*Clip),
	}

	s.logger.Info("Initialize audio subsystem", "device", deviceLabel(config.DeviceName))

	var u unwinder

	device, err := config.Driver.OpenDevice(config.DeviceName)
	if err != nil {
		return nil, s.fail(StageOpenDevice, "", err, &u)
	}
	u.push("device", device.Close)

	ctx, err := device.CreateContext()
	if err != nil {
		return nil, s.fail(StageCreateContext, "", err, &u)
	}
	u.push("context", ctx.Destroy)

	if err := ctx.MakeCurrent(); err != nil {
		return nil, s.fail(StageMakeCurrent, "", err, &u)
	}

	s.device = device
	s.context = ctx
	s.logger.Debug("Audio subsystem ready")

	return s, nil
}

// Quit unloads any clips still loaded, then clears the current context,
// destroys it and closes the device. Every step runs even if an earlier one
// fails; the errors are combined. Calling Quit again does nothing.
func (s *Subsystem) Quit() error {
	if s == nil {
		return nil
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	leftover := make([]*Clip, 0, len(s.clips))
	for _, c := range s.clips {
		leftover = append(leftover, c)
	}
	s.mu.Unlock()

	var err error
	for _, c := range leftover {
		s.logger.Warn("Unloading clip left loaded at shutdown", "clip", c.ID, "path", c.Path)
		err = multierr.Append(err, s.unload(c))
	}

	if cerr := s.context.ClearCurrent(); cerr != nil {
		err = multierr.Append(err, fmt.Errorf("failed to clear current context: %w", cerr))
	}
	if cerr := s.context.Destroy(); cerr != nil {
		err = multierr.Append(err, fmt.Errorf("failed to destroy context: %w", cerr))
	}
	if cerr := s.device.Close(); cerr != nil {
		err = multierr.Append(err, fmt.Errorf("failed to close device: %w", cerr))
	}

	if err != nil {
		s.logger.Error("Audio subsystem shut down with errors", "err", err)
	} else {
		s.logger.Debug("Audio subsystem shut down")
	}
	return err
}

// Clips returns the clips currently loaded
func (s *Subsystem) Clips() []*Clip {
	s.mu.Lock()
	defer s.mu.Unlock()

	clips := make([]*Clip, 0, len(s.clips))
	for _, c := range s.clips {
		clips = append(clips, c)
	}
	return clips
}

// check returns an error if the subsystem cannot be used
func (s *Subsystem) check() error {
	if s == nil {
		return ErrNotInitialized
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSubsystemClosed
	}
	return nil
}

// fail logs a stage failure, unwinds u and returns the stage error
func (s *Subsystem) fail(stage Stage, path string, err error, u *unwinder) error {
	if path != "" {
		s.logger.Error("Failed to "+stage.Reason(), "path", path, "err", err)
	} else {
		s.logger.Error("Failed to "+stage.Reason(), "err", err)
	}

	if len(u.steps) > 0 {
		s.logger.Debug("Releasing partially acquired resources", "stage", stage, "resources", u.names())
	}
	if uerr := u.unwind(); uerr != nil {
		s.logger.Warn("Cleanup after failure was incomplete", "stage", stage, "err", uerr)
		err = multierr.Append(err, uerr)
	}

	return &StageError{Stage: stage, Path: path, Err: err}
}

func deviceLabel(name string) string {
	if name == output.DefaultDevice {
		return "default"
	}
	return name
}
