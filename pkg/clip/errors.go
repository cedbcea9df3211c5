// ABOUTME: Staged error types for subsystem and clip setup
// ABOUTME: Each setup step has a Stage, a sentinel and a human-readable reason
package clip

import (
	"errors"
	"fmt"
)

// Stage identifies the setup step that failed
type Stage int

const (
	StageOpenDevice Stage = iota + 1
	StageCreateContext
	StageMakeCurrent
	StageGenerateBuffer
	StageGenerateSource
	StageOpenFile
	StageUnsupportedFormat
	StageAllocate
	StageIncompleteRead
	StageUpload
	StagePlay
)

var (
	ErrOpenDevice        = errors.New("open-device")
	ErrCreateContext     = errors.New("create-context")
	ErrMakeCurrent       = errors.New("make-current")
	ErrGenerateBuffer    = errors.New("generate-buffer")
	ErrGenerateSource    = errors.New("generate-source")
	ErrOpenFile          = errors.New("open-file")
	ErrUnsupportedFormat = errors.New("unsupported-format")
	ErrAllocate          = errors.New("allocate-temp-buffer")
	ErrIncompleteRead    = errors.New("incomplete-read")
	ErrUpload            = errors.New("upload-failure")
	ErrPlay              = errors.New("play")

	// ErrNotInitialized is returned when a nil Subsystem is used
	ErrNotInitialized = errors.New("audio subsystem not initialized")

	// ErrClipNotLoaded is returned for nil or already unloaded clips
	ErrClipNotLoaded = errors.New("clip not loaded")

	// ErrSubsystemClosed is returned after Quit
	ErrSubsystemClosed = errors.New("audio subsystem closed")
)

var stages = map[Stage]struct {
	sentinel error
	reason   string
}{
	StageOpenDevice:        {ErrOpenDevice, "open default audio device"},
	StageCreateContext:     {ErrCreateContext, "create device context"},
	StageMakeCurrent:       {ErrMakeCurrent, "make context current"},
	StageGenerateBuffer:    {ErrGenerateBuffer, "generate clip buffer"},
	StageGenerateSource:    {ErrGenerateSource, "generate clip source"},
	StageOpenFile:          {ErrOpenFile, "open clip file"},
	StageUnsupportedFormat: {ErrUnsupportedFormat, "resolve clip format"},
	StageAllocate:          {ErrAllocate, "allocate temporary clip data buffer"},
	StageIncompleteRead:    {ErrIncompleteRead, "read clip file completely"},
	StageUpload:            {ErrUpload, "copy clip file data to clip buffer"},
	StagePlay:              {ErrPlay, "play clip"},
}

// String returns the short stage tag, e.g. "open-file"
func (s Stage) String() string {
	if st, ok := stages[s]; ok {
		return st.sentinel.Error()
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Reason returns the human-readable description used in logs
func (s Stage) Reason() string {
	if st, ok := stages[s]; ok {
		return st.reason
	}
	return "unknown stage"
}

// Err returns the sentinel matched by errors.Is for this stage
func (s Stage) Err() error {
	return stages[s].sentinel
}

// StageError reports the step that failed and the collaborator error behind it
type StageError struct {
	Stage Stage
	Path  string // clip path, empty for subsystem stages
	Err   error
}

func (e *StageError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Stage.Reason(), e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Stage.Reason(), e.Err)
}

// Is matches the stage sentinel
func (e *StageError) Is(target error) bool {
	return target != nil && target == e.Stage.Err()
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// StageOf returns the failed stage of err, or 0 if err is not a *StageError
func StageOf(err error) Stage {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return 0
}
