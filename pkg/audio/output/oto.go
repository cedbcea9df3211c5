// ABOUTME: Oto-based audio output implementation
// ABOUTME: Maps device/context/buffer/source handles onto a shared oto context
package output

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/chime-audio/chime/pkg/audio"
	"github.com/ebitengine/oto/v3"
)

// OtoConfig configures the device format of the oto driver
type OtoConfig struct {
	// SampleRate of the device; buffers at other rates are resampled (default: 44100)
	SampleRate int

	// Channels of the device, 1 or 2 (default: 2)
	Channels int

	// BufferSize is the driver-side buffer duration (default: oto's choice)
	BufferSize time.Duration

	// ReadyTimeout bounds the wait for the audio backend (default: 5s)
	ReadyTimeout time.Duration

	Logger *log.Logger
}

// Oto is a Driver backed by ebitengine/oto
type Oto struct {
	config OtoConfig
	logger *log.Logger
}

// oto allows a single context per process, so every device shares it
var shared struct {
	mu         sync.Mutex
	ctx        *oto.Context
	ready      chan struct{}
	sampleRate int
	channels   int
	inUse      bool
}

// NewOto creates a new oto driver
func NewOto(config OtoConfig) *Oto {
	if config.SampleRate == 0 {
		config.SampleRate = 44100
	}
	if config.Channels == 0 {
		config.Channels = 2
	}
	if config.ReadyTimeout == 0 {
		config.ReadyTimeout = 5 * time.Second
	}
	logger := config.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Oto{config: config, logger: logger}
}

// OpenDevice opens the default device. oto cannot select devices, so any
// other name fails.
func (d *Oto) OpenDevice(name string) (Device, error) {
	if name != DefaultDevice && name != "default" {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDevice, name)
	}
	if d.config.Channels != 1 && d.config.Channels != 2 {
		return nil, fmt.Errorf("%w: channels must be 1 or 2, got %d", ErrInvalidValue, d.config.Channels)
	}
	if d.config.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate must be positive, got %d", ErrInvalidValue, d.config.SampleRate)
	}

	shared.mu.Lock()
	defer shared.mu.Unlock()

	if shared.inUse {
		return nil, ErrDeviceBusy
	}

	if shared.ctx == nil {
		op := &oto.NewContextOptions{
			SampleRate:   d.config.SampleRate,
			ChannelCount: d.config.Channels,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   d.config.BufferSize,
		}

		ctx, readyChan, err := oto.NewContext(op)
		if err != nil {
			return nil, fmt.Errorf("failed to create oto context: %w", err)
		}

		shared.ctx = ctx
		shared.ready = readyChan
		shared.sampleRate = d.config.SampleRate
		shared.channels = d.config.Channels
	} else if shared.sampleRate != d.config.SampleRate || shared.channels != d.config.Channels {
		// oto cannot be reinitialized with a different format
		return nil, fmt.Errorf("%w: device already initialized at %dHz %dch, requested %dHz %dch",
			ErrInvalidValue, shared.sampleRate, shared.channels, d.config.SampleRate, d.config.Channels)
	}

	select {
	case <-shared.ready:
	case <-time.After(d.config.ReadyTimeout):
		return nil, fmt.Errorf("audio context initialization timeout after %v", d.config.ReadyTimeout)
	}

	shared.inUse = true
	d.logger.Debug("Opened oto playback device",
		"sample_rate", shared.sampleRate,
		"channels", shared.channels)

	return &otoDevice{
		driver:     d,
		ctx:        shared.ctx,
		sampleRate: shared.sampleRate,
		channels:   shared.channels,
	}, nil
}

type otoDevice struct {
	driver     *Oto
	ctx        *oto.Context
	sampleRate int
	channels   int

	mu     sync.Mutex
	closed bool
}

func (dev *otoDevice) CreateContext() (Context, error) {
	dev.mu.Lock()
	defer dev.mu.Unlock()

	if dev.closed {
		return nil, ErrDeviceClosed
	}

	format, err := audio.ResolveFormat(dev.channels, audio.EncodingPCM16)
	if err != nil {
		return nil, err
	}

	return &otoContext{
		device:  dev,
		format:  format,
		buffers: make(map[*otoBuffer]struct{}),
		sources: make(map[*otoSource]struct{}),
	}, nil
}

func (dev *otoDevice) Close() error {
	dev.mu.Lock()
	defer dev.mu.Unlock()

	if dev.closed {
		return fmt.Errorf("%w: device already closed", ErrInvalidHandle)
	}
	dev.closed = true

	// The oto context lives for the whole process; suspend it instead
	err := dev.ctx.Suspend()

	shared.mu.Lock()
	shared.inUse = false
	shared.mu.Unlock()

	if err != nil {
		return fmt.Errorf("failed to suspend oto context: %w", err)
	}
	return nil
}

type otoContext struct {
	device *otoDevice
	format audio.SampleFormat

	mu        sync.Mutex
	destroyed bool
	buffers   map[*otoBuffer]struct{}
	sources   map[*otoSource]struct{}
}

func (c *otoContext) MakeCurrent() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.destroyed {
		return ErrContextDestroyed
	}
	if err := c.device.ctx.Resume(); err != nil {
		return fmt.Errorf("failed to resume oto context: %w", err)
	}
	return nil
}

func (c *otoContext) ClearCurrent() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.destroyed {
		return ErrContextDestroyed
	}
	if err := c.device.ctx.Suspend(); err != nil {
		return fmt.Errorf("failed to suspend oto context: %w", err)
	}
	return nil
}

func (c *otoContext) Destroy() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.destroyed {
		return fmt.Errorf("%w: context already destroyed", ErrInvalidHandle)
	}
	c.destroyed = true

	for s := range c.sources {
		s.stopLocked()
		s.deleted = true
	}
	for b := range c.buffers {
		b.deleted = true
		b.pcm = nil
	}
	c.sources = nil
	c.buffers = nil

	return nil
}

func (c *otoContext) GenBuffer() (Buffer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.destroyed {
		return nil, ErrContextDestroyed
	}
	b := &otoBuffer{ctx: c}
	c.buffers[b] = struct{}{}
	return b, nil
}

func (c *otoContext) GenSource() (Source, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.destroyed {
		return nil, ErrContextDestroyed
	}
	s := &otoSource{ctx: c, gain: 1.0}
	c.sources[s] = struct{}{}
	return s, nil
}

// otoBuffer holds PCM already converted to the device format
type otoBuffer struct {
	ctx      *otoContext
	pcm      []byte
	attached int
	deleted  bool
}

func (b *otoBuffer) Upload(format audio.SampleFormat, data []byte, sampleRate int) error {
	b.ctx.mu.Lock()
	defer b.ctx.mu.Unlock()

	if b.deleted {
		return ErrInvalidHandle
	}
	if b.attached > 0 {
		return ErrBufferInUse
	}
	if err := validateUpload(format, data, sampleRate); err != nil {
		return err
	}

	dev := b.ctx.device
	b.pcm = convertPCM(format, data, sampleRate, dev.sampleRate, b.ctx.format)
	return nil
}

func (b *otoBuffer) Delete() error {
	b.ctx.mu.Lock()
	defer b.ctx.mu.Unlock()

	if b.deleted {
		return ErrInvalidHandle
	}
	if b.attached > 0 {
		return ErrBufferInUse
	}
	b.deleted = true
	b.pcm = nil
	delete(b.ctx.buffers, b)
	return nil
}

type otoSource struct {
	ctx     *otoContext
	buffer  *otoBuffer
	player  *oto.Player
	gain    float64
	started bool
	deleted bool
}

func (s *otoSource) Attach(buf Buffer) error {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()

	if s.deleted {
		return ErrInvalidHandle
	}
	b, ok := buf.(*otoBuffer)
	if !ok || b.ctx != s.ctx || b.deleted {
		return fmt.Errorf("%w: buffer does not belong to this context", ErrInvalidHandle)
	}

	s.stopLocked()
	if s.buffer != nil {
		s.buffer.attached--
	}
	s.buffer = b
	b.attached++
	s.started = false
	return nil
}

func (s *otoSource) Play() error {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()

	if s.deleted {
		return ErrInvalidHandle
	}
	if s.buffer == nil || len(s.buffer.pcm) == 0 {
		return ErrNoBuffer
	}

	s.stopLocked()
	s.player = s.ctx.device.ctx.NewPlayer(bytes.NewReader(s.buffer.pcm))
	s.player.SetVolume(s.gain)
	s.player.Play()
	s.started = true
	return nil
}

func (s *otoSource) State() (SourceState, error) {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()

	if s.deleted {
		return SourceStopped, ErrInvalidHandle
	}
	if !s.started {
		return SourceInitial, nil
	}
	if s.player == nil {
		return SourceStopped, nil
	}
	if s.player.IsPlaying() {
		return SourcePlaying, nil
	}
	if err := s.player.Err(); err != nil {
		return SourceStopped, fmt.Errorf("oto player failed: %w", err)
	}
	return SourceStopped, nil
}

func (s *otoSource) SetGain(gain float64) error {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()

	if s.deleted {
		return ErrInvalidHandle
	}
	if gain < 0 || gain > 1 {
		return fmt.Errorf("%w: gain must be between 0.0 and 1.0, got %f", ErrInvalidValue, gain)
	}
	s.gain = gain
	if s.player != nil {
		s.player.SetVolume(gain)
	}
	return nil
}

func (s *otoSource) Stop() error {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()

	if s.deleted {
		return ErrInvalidHandle
	}
	s.stopLocked()
	return nil
}

func (s *otoSource) Delete() error {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()

	if s.deleted {
		return ErrInvalidHandle
	}
	s.stopLocked()
	if s.buffer != nil {
		s.buffer.attached--
		s.buffer = nil
	}
	s.deleted = true
	delete(s.ctx.sources, s)
	return nil
}

// stopLocked pauses and closes the current player (must hold ctx.mu)
func (s *otoSource) stopLocked() {
	if s.player == nil {
		return
	}
	s.player.Pause()
	if err := s.player.Close(); err != nil {
		s.ctx.device.driver.logger.Warn("Failed to close oto player", "err", err)
	}
	s.player = nil
}
