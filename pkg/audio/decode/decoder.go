// ABOUTME: Decoder interface definitions and codec registry
// ABOUTME: Sniffs container formats and opens files with the matching codec
package decode

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chime-audio/chime/pkg/audio"
)

// ErrUnknownFormat is returned when no registered codec recognizes a file
var ErrUnknownFormat = errors.New("unknown audio file format")

// Info describes an opened audio file
type Info struct {
	Container  string
	Frames     int64
	SampleRate int
	Channels   int
	Encoding   audio.Encoding
}

// File is an opened audio file that decodes to interleaved int16 frames
type File interface {
	// Info returns the metadata read when the file was opened
	Info() Info

	// ReadFrames decodes up to len(dst)/channels frames into dst and returns
	// the number of frames decoded. It returns io.EOF once no frames remain.
	ReadFrames(dst []int16) (int, error)

	// Close releases the underlying file
	Close() error
}

// Opener opens audio files by path
type Opener interface {
	Open(path string) (File, error)
}

// Codec describes one container format the registry can open
type Codec struct {
	Name       string
	Extensions []string

	// Sniff reports whether header (up to 12 leading bytes) belongs to this format
	Sniff func(header []byte) bool

	// Open decodes an opened file positioned at its start. The codec owns f
	// once Open succeeds.
	Open func(f *os.File) (File, error)
}

// Registry selects a codec per file
type Registry struct {
	codecs []Codec
}

// NewRegistry creates a registry with the given codecs, or every built-in codec if none are given
func NewRegistry(codecs ...Codec) *Registry {
	if len(codecs) == 0 {
		codecs = DefaultCodecs()
	}
	return &Registry{codecs: codecs}
}

// DefaultCodecs returns the built-in codecs
func DefaultCodecs() []Codec {
	return []Codec{WAV(), FLAC(), Vorbis(), MP3()}
}

// Register adds a codec; later registrations are tried after earlier ones
func (r *Registry) Register(c Codec) {
	r.codecs = append(r.codecs, c)
}

// Open opens path with the first codec whose signature matches the file
// header, falling back to the file extension
func (r *Registry) Open(path string) (File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}

	header := make([]byte, 12)
	n, err := io.ReadFull(f, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		f.Close()
		return nil, fmt.Errorf("failed to read audio file header: %w", err)
	}
	header = header[:n]

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rewind audio file: %w", err)
	}

	codec, ok := r.lookup(path, header)
	if !ok {
		f.Close()
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, filepath.Base(path))
	}

	file, err := codec.Open(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to decode %s file: %w", codec.Name, err)
	}

	return file, nil
}

func (r *Registry) lookup(path string, header []byte) (Codec, bool) {
	for _, c := range r.codecs {
		if c.Sniff != nil && c.Sniff(header) {
			return c, true
		}
	}

	ext := strings.ToLower(filepath.Ext(path))
	for _, c := range r.codecs {
		for _, e := range c.Extensions {
			if e == ext {
				return c, true
			}
		}
	}

	return Codec{}, false
}

// ReadFull reads frames into dst until it is full or the file ends and
// returns the number of frames read. Reaching the end early is not an error;
// callers compare the count against Info().Frames.
func ReadFull(f File, dst []int16) (int, error) {
	channels := f.Info().Channels
	if channels <= 0 {
		return 0, fmt.Errorf("invalid channel count: %d", channels)
	}

	total := 0
	for total*channels < len(dst) {
		n, err := f.ReadFrames(dst[total*channels:])
		total += n
		if errors.Is(err, io.EOF) {
			return total, nil
		}
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, io.ErrNoProgress
		}
	}
	return total, nil
}

func hasPrefix(header []byte, magic string) bool {
	return bytes.HasPrefix(header, []byte(magic))
}

// closeFile closes f and ignores errors from a file the decoder already closed
func closeFile(f *os.File) error {
	if err := f.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		return err
	}
	return nil
}
