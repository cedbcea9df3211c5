// ABOUTME: Test collaborators for the clip package
// ABOUTME: Fake decoder files and a subsystem wired to the mock driver
package clip

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/chime-audio/chime/pkg/audio"
	"github.com/chime-audio/chime/pkg/audio/decode"
	"github.com/chime-audio/chime/pkg/audio/output"
)

// fakeClip describes a file served by fakeDecoder
type fakeClip struct {
	frames     int64
	sampleRate int
	channels   int
	encoding   audio.Encoding

	// decodable overrides how many frames can actually be read (-1: all)
	decodable int64
	readErr   error
	closeErr  error
}

// fakeDecoder opens fakeClips by path and remembers every file it handed out
type fakeDecoder struct {
	mu    sync.Mutex
	clips map[string]fakeClip
	files []*fakeFile
}

func newFakeDecoder() *fakeDecoder {
	return &fakeDecoder{clips: make(map[string]fakeClip)}
}

func (d *fakeDecoder) add(path string, c fakeClip) {
	if c.decodable == 0 {
		c.decodable = -1
	}
	d.mu.Lock()
	d.clips[path] = c
	d.mu.Unlock()
}

func (d *fakeDecoder) Open(path string) (decode.File, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	c, ok := d.clips[path]
	if !ok {
		return nil, fmt.Errorf("failed to open audio file: %w", os.ErrNotExist)
	}

	remain := c.frames
	if c.decodable >= 0 {
		remain = c.decodable
	}
	f := &fakeFile{clip: c, remain: remain}
	d.files = append(d.files, f)
	return f, nil
}

// openFiles returns how many handed-out files are still open
func (d *fakeDecoder) openFiles() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := 0
	for _, f := range d.files {
		if f.closed == 0 {
			n++
		}
	}
	return n
}

type fakeFile struct {
	clip   fakeClip
	remain int64
	closed int
}

func (f *fakeFile) Info() decode.Info {
	return decode.Info{
		Container:  "fake",
		Frames:     f.clip.frames,
		SampleRate: f.clip.sampleRate,
		Channels:   f.clip.channels,
		Encoding:   f.clip.encoding,
	}
}

func (f *fakeFile) ReadFrames(dst []int16) (int, error) {
	if f.clip.readErr != nil {
		return 0, f.clip.readErr
	}
	if f.remain == 0 {
		return 0, io.EOF
	}
	n := int64(len(dst) / f.clip.channels)
	if n > f.remain {
		n = f.remain
	}
	for i := int64(0); i < n*int64(f.clip.channels); i++ {
		dst[i] = 1000
	}
	f.remain -= n
	return int(n), nil
}

func (f *fakeFile) Close() error {
	f.closed++
	return f.clip.closeErr
}

// harness bundles a subsystem with its mock collaborators and captured logs
type harness struct {
	sys     *Subsystem
	driver  *output.Mock
	decoder *fakeDecoder
	logs    *bytes.Buffer
}

func newLogger(buf *bytes.Buffer) *log.Logger {
	return log.NewWithOptions(buf, log.Options{
		Level:     log.DebugLevel,
		Formatter: log.JSONFormatter,
	})
}

// newHarness initializes a subsystem on a mock driver with fast polling
func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		driver:  output.NewMock(),
		decoder: newFakeDecoder(),
		logs:    &bytes.Buffer{},
	}

	sys, err := Init(Config{
		Driver:       h.driver,
		Decoder:      h.decoder,
		PollInterval: 5 * time.Millisecond,
		Logger:       newLogger(h.logs),
	})
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	h.sys = sys

	t.Cleanup(func() {
		_ = sys.Quit()
	})
	return h
}

func (h *harness) loggedErrors() bool {
	return strings.Contains(h.logs.String(), `"level":"error"`)
}

func (h *harness) assertNoLeaks(t *testing.T) {
	t.Helper()

	if n := h.driver.LiveBuffers(); n != 0 {
		t.Errorf("expected no live buffers, got %d", n)
	}
	if n := h.driver.LiveSources(); n != 0 {
		t.Errorf("expected no live sources, got %d", n)
	}
	if n := h.decoder.openFiles(); n != 0 {
		t.Errorf("expected no open files, got %d", n)
	}
	if v := h.driver.Violations(); len(v) != 0 {
		t.Errorf("unexpected driver violations: %v", v)
	}
}
