// ABOUTME: Tests for the codec registry and ReadFull
// ABOUTME: Tests format sniffing, extension fallback and open failures
package decode

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/chime-audio/chime/pkg/audio"
)

func TestSniff(t *testing.T) {
	tests := []struct {
		name     string
		header   []byte
		expected string
	}{
		{"wav", []byte("RIFF\x24\x00\x00\x00WAVE"), "wav"},
		{"flac", []byte("fLaC\x00\x00\x00\x22"), "flac"},
		{"ogg", []byte("OggS\x00\x02"), "vorbis"},
		{"mp3 id3", []byte("ID3\x04\x00"), "mp3"},
		{"mp3 sync", []byte{0xFF, 0xFB, 0x90, 0x64}, "mp3"},
	}

	reg := NewRegistry()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codec, ok := reg.lookup("clip.bin", tt.header)
			if !ok {
				t.Fatal("expected codec to be found")
			}
			if codec.Name != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, codec.Name)
			}
		})
	}
}

func TestSniff_RIFFWithoutWAVE(t *testing.T) {
	reg := NewRegistry()

	if _, ok := reg.lookup("clip.bin", []byte("RIFF\x24\x00\x00\x00AVI ")); ok {
		t.Error("expected RIFF/AVI header not to match any codec")
	}
}

func TestExtensionFallback(t *testing.T) {
	reg := NewRegistry()

	codec, ok := reg.lookup("/music/Track.FLAC", []byte{0, 0, 0, 0})
	if !ok {
		t.Fatal("expected extension fallback to find a codec")
	}
	if codec.Name != "flac" {
		t.Errorf("expected flac, got %s", codec.Name)
	}
}

func TestOpen_MissingFile(t *testing.T) {
	reg := NewRegistry()

	file, err := reg.Open(filepath.Join(t.TempDir(), "missing.wav"))
	if err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
	if file != nil {
		t.Fatal("expected file to be nil on error")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestOpen_UnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("not audio at all"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	_, err := NewRegistry().Open(path)
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestOpen_CorruptWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.wav")
	if err := os.WriteFile(path, []byte("RIFF\x00\x00\x00\x00WAVE"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	if _, err := NewRegistry().Open(path); err == nil {
		t.Fatal("expected error for truncated WAV header, got nil")
	}
}

func TestRegister(t *testing.T) {
	reg := NewRegistry(WAV())
	reg.Register(Codec{Name: "raw", Extensions: []string{".raw"}})

	codec, ok := reg.lookup("clip.raw", nil)
	if !ok || codec.Name != "raw" {
		t.Errorf("expected registered raw codec, got %q (found=%v)", codec.Name, ok)
	}
}

// stubFile hands out a fixed number of frames in small chunks
type stubFile struct {
	info     Info
	remain   int
	perRead  int
	failWith error
}

func (s *stubFile) Info() Info { return s.info }

func (s *stubFile) ReadFrames(dst []int16) (int, error) {
	if s.failWith != nil {
		return 0, s.failWith
	}
	if s.remain == 0 {
		return 0, io.EOF
	}
	n := len(dst) / s.info.Channels
	if n > s.perRead {
		n = s.perRead
	}
	if n > s.remain {
		n = s.remain
	}
	for i := 0; i < n*s.info.Channels; i++ {
		dst[i] = 1
	}
	s.remain -= n
	return n, nil
}

func (s *stubFile) Close() error { return nil }

func TestReadFull(t *testing.T) {
	f := &stubFile{
		info:    Info{Channels: 2, Frames: 10, Encoding: audio.EncodingPCM16},
		remain:  10,
		perRead: 3,
	}

	dst := make([]int16, 20)
	n, err := ReadFull(f, dst)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 10 {
		t.Errorf("expected 10 frames, got %d", n)
	}
	for i, s := range dst {
		if s != 1 {
			t.Fatalf("sample %d not filled", i)
		}
	}
}

func TestReadFull_ShortFile(t *testing.T) {
	f := &stubFile{
		info:    Info{Channels: 1, Frames: 10},
		remain:  6,
		perRead: 4,
	}

	n, err := ReadFull(f, make([]int16, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 6 {
		t.Errorf("expected 6 frames, got %d", n)
	}
}

func TestReadFull_DecodeError(t *testing.T) {
	decodeErr := errors.New("bad frame")
	f := &stubFile{info: Info{Channels: 1}, failWith: decodeErr}

	_, err := ReadFull(f, make([]int16, 4))
	if !errors.Is(err, decodeErr) {
		t.Errorf("expected decode error, got %v", err)
	}
}
