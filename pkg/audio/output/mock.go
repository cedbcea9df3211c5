// ABOUTME: In-memory audio output driver for tests and headless hosts
// ABOUTME: Counts calls, tracks live handles, injects failures and simulates playback time
package output

import (
	"fmt"
	"sync"
	"time"

	"github.com/chime-audio/chime/pkg/audio"
)

// Op names a driver operation for failure injection and call counting
type Op string

const (
	OpOpenDevice     Op = "open-device"
	OpCloseDevice    Op = "close-device"
	OpCreateContext  Op = "create-context"
	OpMakeCurrent    Op = "make-current"
	OpClearCurrent   Op = "clear-current"
	OpDestroyContext Op = "destroy-context"
	OpGenBuffer      Op = "gen-buffer"
	OpDeleteBuffer   Op = "delete-buffer"
	OpUpload         Op = "upload"
	OpGenSource      Op = "gen-source"
	OpDeleteSource   Op = "delete-source"
	OpAttach         Op = "attach"
	OpPlay           Op = "play"
	OpState          Op = "state"
	OpSetGain        Op = "set-gain"
	OpStop           Op = "stop"
)

// Upload records the arguments of a buffer upload
type Upload struct {
	Format     audio.SampleFormat
	Bytes      int
	SampleRate int
}

// Mock is a Driver that never touches hardware. Playback lasts as long as the
// attached buffer's audio unless PlayDuration overrides it.
type Mock struct {
	// PlayDuration, when non-zero, replaces the simulated length of every play
	PlayDuration time.Duration

	mu         sync.Mutex
	failures   map[Op]error
	calls      map[Op]int
	history    []Op
	devices    int
	contexts   int
	buffers    int
	sources    int
	violations []string
	lastUpload Upload
	now        func() time.Time
}

// NewMock creates a mock driver
func NewMock() *Mock {
	return &Mock{
		failures: make(map[Op]error),
		calls:    make(map[Op]int),
		now:      time.Now,
	}
}

// Fail makes every later call of op return err. A nil err clears the failure.
func (m *Mock) Fail(op Op, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err == nil {
		delete(m.failures, op)
		return
	}
	m.failures[op] = err
}

// Calls returns how many times op was invoked
func (m *Mock) Calls(op Op) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

// History returns every invoked operation in call order
func (m *Mock) History() []Op {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Op(nil), m.history...)
}

// LiveDevices returns the number of open devices
func (m *Mock) LiveDevices() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.devices
}

// LiveContexts returns the number of contexts not yet destroyed
func (m *Mock) LiveContexts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.contexts
}

// LiveBuffers returns the number of generated buffers not yet deleted
func (m *Mock) LiveBuffers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.buffers
}

// LiveSources returns the number of generated sources not yet deleted
func (m *Mock) LiveSources() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sources
}

// Violations lists misuse such as double releases or use after release
func (m *Mock) Violations() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.violations...)
}

// LastUpload returns the most recent successful buffer upload
func (m *Mock) LastUpload() Upload {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastUpload
}

// enter counts a call and returns the injected failure, if any (must hold mu)
func (m *Mock) enter(op Op) error {
	m.calls[op]++
	m.history = append(m.history, op)
	return m.failures[op]
}

func (m *Mock) violate(format string, args ...any) {
	m.violations = append(m.violations, fmt.Sprintf(format, args...))
}

func (m *Mock) OpenDevice(name string) (Device, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.enter(OpOpenDevice); err != nil {
		return nil, err
	}
	m.devices++
	return &mockDevice{mock: m, name: name}, nil
}

type mockDevice struct {
	mock   *Mock
	name   string
	closed bool
}

func (d *mockDevice) CreateContext() (Context, error) {
	m := d.mock
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.enter(OpCreateContext); err != nil {
		return nil, err
	}
	if d.closed {
		m.violate("create context on closed device %q", d.name)
		return nil, ErrDeviceClosed
	}
	m.contexts++
	return &mockContext{mock: m, device: d}, nil
}

func (d *mockDevice) Close() error {
	m := d.mock
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.enter(OpCloseDevice); err != nil {
		return err
	}
	if d.closed {
		m.violate("device %q closed twice", d.name)
		return ErrInvalidHandle
	}
	d.closed = true
	m.devices--
	return nil
}

type mockContext struct {
	mock      *Mock
	device    *mockDevice
	current   bool
	destroyed bool
}

func (c *mockContext) MakeCurrent() error {
	m := c.mock
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.enter(OpMakeCurrent); err != nil {
		return err
	}
	if c.destroyed {
		m.violate("make current on destroyed context")
		return ErrContextDestroyed
	}
	c.current = true
	return nil
}

func (c *mockContext) ClearCurrent() error {
	m := c.mock
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.enter(OpClearCurrent); err != nil {
		return err
	}
	if c.destroyed {
		m.violate("clear current on destroyed context")
		return ErrContextDestroyed
	}
	c.current = false
	return nil
}

func (c *mockContext) Destroy() error {
	m := c.mock
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.enter(OpDestroyContext); err != nil {
		return err
	}
	if c.destroyed {
		m.violate("context destroyed twice")
		return ErrInvalidHandle
	}
	if c.device.closed {
		m.violate("context destroyed after its device was closed")
	}
	c.destroyed = true
	m.contexts--
	return nil
}

func (c *mockContext) GenBuffer() (Buffer, error) {
	m := c.mock
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.enter(OpGenBuffer); err != nil {
		return nil, err
	}
	if c.destroyed {
		m.violate("buffer generated on destroyed context")
		return nil, ErrContextDestroyed
	}
	m.buffers++
	return &mockBuffer{ctx: c}, nil
}

func (c *mockContext) GenSource() (Source, error) {
	m := c.mock
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.enter(OpGenSource); err != nil {
		return nil, err
	}
	if c.destroyed {
		m.violate("source generated on destroyed context")
		return nil, ErrContextDestroyed
	}
	m.sources++
	return &mockSource{ctx: c, gain: 1.0}, nil
}

type mockBuffer struct {
	ctx        *mockContext
	format     audio.SampleFormat
	frames     int
	sampleRate int
	attached   int
	deleted    bool
}

// duration is the playback length of the uploaded data
func (b *mockBuffer) duration() time.Duration {
	if b.sampleRate == 0 {
		return 0
	}
	return time.Duration(b.frames) * time.Second / time.Duration(b.sampleRate)
}

func (b *mockBuffer) Upload(format audio.SampleFormat, data []byte, sampleRate int) error {
	m := b.ctx.mock
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.enter(OpUpload); err != nil {
		return err
	}
	if b.deleted {
		m.violate("upload to deleted buffer")
		return ErrInvalidHandle
	}
	if b.attached > 0 {
		return ErrBufferInUse
	}
	if err := validateUpload(format, data, sampleRate); err != nil {
		return err
	}

	b.format = format
	b.frames = len(data) / format.FrameSize()
	b.sampleRate = sampleRate
	m.lastUpload = Upload{Format: format, Bytes: len(data), SampleRate: sampleRate}
	return nil
}

func (b *mockBuffer) Delete() error {
	m := b.ctx.mock
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.enter(OpDeleteBuffer); err != nil {
		return err
	}
	if b.deleted {
		m.violate("buffer deleted twice")
		return ErrInvalidHandle
	}
	if b.attached > 0 {
		return ErrBufferInUse
	}
	if b.ctx.destroyed {
		m.violate("buffer deleted after its context was destroyed")
	}
	b.deleted = true
	m.buffers--
	return nil
}

type mockSource struct {
	ctx       *mockContext
	buffer    *mockBuffer
	gain      float64
	state     SourceState
	startedAt time.Time
	length    time.Duration
	deleted   bool
}

func (s *mockSource) Attach(buf Buffer) error {
	m := s.ctx.mock
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.enter(OpAttach); err != nil {
		return err
	}
	if s.deleted {
		m.violate("attach on deleted source")
		return ErrInvalidHandle
	}
	b, ok := buf.(*mockBuffer)
	if !ok || b.ctx != s.ctx {
		return fmt.Errorf("%w: buffer does not belong to this context", ErrInvalidHandle)
	}
	if b.deleted {
		m.violate("deleted buffer attached to source")
		return ErrInvalidHandle
	}

	if s.buffer != nil {
		s.buffer.attached--
	}
	s.buffer = b
	b.attached++
	s.state = SourceInitial
	return nil
}

func (s *mockSource) Play() error {
	m := s.ctx.mock
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.enter(OpPlay); err != nil {
		return err
	}
	if s.deleted {
		m.violate("play on deleted source")
		return ErrInvalidHandle
	}
	if s.buffer == nil || s.buffer.frames == 0 {
		return ErrNoBuffer
	}

	s.length = s.buffer.duration()
	if m.PlayDuration > 0 {
		s.length = m.PlayDuration
	}
	s.startedAt = m.now()
	s.state = SourcePlaying
	return nil
}

func (s *mockSource) State() (SourceState, error) {
	m := s.ctx.mock
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.enter(OpState); err != nil {
		return SourceStopped, err
	}
	if s.deleted {
		m.violate("state query on deleted source")
		return SourceStopped, ErrInvalidHandle
	}
	if s.state == SourcePlaying && m.now().Sub(s.startedAt) >= s.length {
		s.state = SourceStopped
	}
	return s.state, nil
}

func (s *mockSource) SetGain(gain float64) error {
	m := s.ctx.mock
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.enter(OpSetGain); err != nil {
		return err
	}
	if s.deleted {
		m.violate("set gain on deleted source")
		return ErrInvalidHandle
	}
	if gain < 0 || gain > 1 {
		return fmt.Errorf("%w: gain must be between 0.0 and 1.0, got %f", ErrInvalidValue, gain)
	}
	s.gain = gain
	return nil
}

func (s *mockSource) Stop() error {
	m := s.ctx.mock
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.enter(OpStop); err != nil {
		return err
	}
	if s.deleted {
		m.violate("stop on deleted source")
		return ErrInvalidHandle
	}
	if s.state == SourcePlaying || s.state == SourcePaused {
		s.state = SourceStopped
	}
	return nil
}

func (s *mockSource) Delete() error {
	m := s.ctx.mock
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.enter(OpDeleteSource); err != nil {
		return err
	}
	if s.deleted {
		m.violate("source deleted twice")
		return ErrInvalidHandle
	}
	if s.ctx.destroyed {
		m.violate("source deleted after its context was destroyed")
	}
	if s.buffer != nil {
		s.buffer.attached--
		s.buffer = nil
	}
	s.deleted = true
	m.sources--
	return nil
}
