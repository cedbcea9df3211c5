// ABOUTME: Tests for the FLAC, Vorbis and MP3 codecs
// ABOUTME: Uses small files in testdata plus FLAC streams encoded with mewkiz/flac
package decode

import (
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/chime-audio/chime/pkg/audio"
	"github.com/hajimehoshi/go-mp3"
	mewflac "github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"
)

// writeFLAC encodes one verbatim frame of a ramp at the given sample size.
// Every sample of the first channel is non-negative on even frames and
// negative on odd frames.
func writeFLAC(t *testing.T, bits, channels, frames int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fixture.flac")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create fixture: %v", err)
	}

	info := &meta.StreamInfo{
		BlockSizeMin:  uint16(frames),
		BlockSizeMax:  uint16(frames),
		SampleRate:    44100,
		NChannels:     uint8(channels),
		BitsPerSample: uint8(bits),
	}
	enc, err := mewflac.NewEncoder(f, info)
	if err != nil {
		f.Close()
		t.Fatalf("failed to create encoder: %v", err)
	}
	enc.EnablePredictionAnalysis(false)

	peak := int32(1)<<(bits-2) - 1
	subframes := make([]*frame.Subframe, channels)
	for ch := range subframes {
		samples := make([]int32, frames)
		for i := range samples {
			v := peak / int32(i%7+1)
			if i%2 == 1 {
				v = -v - 1
			}
			samples[i] = v
		}
		subframes[ch] = &frame.Subframe{
			SubHeader: frame.SubHeader{Pred: frame.PredVerbatim},
			Samples:   samples,
			NSamples:  frames,
		}
	}

	layout := frame.ChannelsMono
	if channels == 2 {
		layout = frame.ChannelsLR
	}
	fr := &frame.Frame{
		Header: frame.Header{
			HasFixedBlockSize: true,
			BlockSize:         uint16(frames),
			SampleRate:        44100,
			Channels:          layout,
			BitsPerSample:     uint8(bits),
		},
		Subframes: subframes,
	}
	if err := enc.WriteFrame(fr); err != nil {
		enc.Close()
		t.Fatalf("failed to encode frame: %v", err)
	}
	// Close rewrites STREAMINFO and closes f
	if err := enc.Close(); err != nil {
		t.Fatalf("failed to finish fixture: %v", err)
	}
	return path
}

func TestFLACEncodingFromStreamInfo(t *testing.T) {
	tests := []struct {
		name     string
		bits     int
		channels int
		encoding audio.Encoding
	}{
		{"8-bit is signed", 8, 1, audio.EncodingPCMS8},
		{"12-bit", 12, 1, audio.EncodingUnknown},
		{"16-bit stereo", 16, 2, audio.EncodingPCM16},
		{"20-bit", 20, 2, audio.EncodingUnknown},
		{"24-bit", 24, 1, audio.EncodingPCM24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFLAC(t, tt.bits, tt.channels, 256)

			f, err := NewRegistry().Open(path)
			if err != nil {
				t.Fatalf("failed to open fixture: %v", err)
			}
			defer f.Close()

			info := f.Info()
			if info.Container != "flac" {
				t.Errorf("expected flac container, got %s", info.Container)
			}
			if info.Encoding != tt.encoding {
				t.Errorf("expected encoding %s, got %s", tt.encoding, info.Encoding)
			}
			if info.Frames != 256 {
				t.Errorf("expected 256 frames, got %d", info.Frames)
			}
			if info.Channels != tt.channels {
				t.Errorf("expected %d channels, got %d", tt.channels, info.Channels)
			}
			if info.SampleRate != 44100 {
				t.Errorf("expected sample rate 44100, got %d", info.SampleRate)
			}

			_, err = audio.ResolveFormat(info.Channels, info.Encoding)
			if tt.encoding == audio.EncodingUnknown && err == nil {
				t.Errorf("expected %d-bit FLAC to have no playable format", tt.bits)
			}
		})
	}
}

func TestFLACSigned8BitSamples(t *testing.T) {
	path := writeFLAC(t, 8, 1, 64)

	f, err := NewRegistry().Open(path)
	if err != nil {
		t.Fatalf("failed to open fixture: %v", err)
	}
	defer f.Close()

	samples := make([]int16, 64)
	n, err := ReadFull(f, samples)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if n != 64 {
		t.Fatalf("expected 64 frames, got %d", n)
	}
	for i := 0; i < 14; i++ {
		if i%2 == 0 && samples[i] <= 0 {
			t.Errorf("frame %d: expected positive sample, got %d", i, samples[i])
		}
		if i%2 == 1 && samples[i] >= 0 {
			t.Errorf("frame %d: expected negative sample, got %d", i, samples[i])
		}
	}
}

func TestFLACFile(t *testing.T) {
	f, err := NewRegistry().Open(filepath.Join("testdata", "mono_22050.flac"))
	if err != nil {
		t.Fatalf("failed to open flac: %v", err)
	}
	defer f.Close()

	info := f.Info()
	expected := Info{Container: "flac", Frames: 22050, SampleRate: 44100, Channels: 1, Encoding: audio.EncodingPCM16}
	if info != expected {
		t.Errorf("expected %+v, got %+v", expected, info)
	}

	samples := make([]int16, info.Frames)
	n, err := ReadFull(f, samples)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if n != 22050 {
		t.Errorf("expected 22050 frames, got %d", n)
	}
	if _, err := f.ReadFrames(samples); err != io.EOF {
		t.Errorf("expected io.EOF after last frame, got %v", err)
	}
}

func TestVorbisFile(t *testing.T) {
	f, err := NewRegistry().Open(filepath.Join("testdata", "mono_22050.ogg"))
	if err != nil {
		t.Fatalf("failed to open ogg: %v", err)
	}
	defer f.Close()

	info := f.Info()
	expected := Info{Container: "vorbis", Frames: 22050, SampleRate: 44100, Channels: 1, Encoding: audio.EncodingPCM16}
	if info != expected {
		t.Errorf("expected %+v, got %+v", expected, info)
	}
	if _, err := audio.ResolveFormat(info.Channels, info.Encoding); err != nil {
		t.Errorf("expected vorbis to resolve to a playable format, got %v", err)
	}

	samples := make([]int16, info.Frames)
	n, err := ReadFull(f, samples)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if n != 22050 {
		t.Errorf("expected 22050 frames, got %d", n)
	}
}

func TestMP3File(t *testing.T) {
	path := filepath.Join("testdata", "padded.mp3")

	// Reference decode straight from go-mp3
	raw, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open mp3: %v", err)
	}
	defer raw.Close()
	ref, err := mp3.NewDecoder(raw)
	if err != nil {
		t.Fatalf("failed to create reference decoder: %v", err)
	}
	refBytes, err := io.ReadAll(ref)
	if err != nil {
		t.Fatalf("reference decode failed: %v", err)
	}

	f, err := NewRegistry().Open(path)
	if err != nil {
		t.Fatalf("failed to open mp3: %v", err)
	}
	defer f.Close()

	info := f.Info()
	if info.Container != "mp3" {
		t.Errorf("expected mp3 container, got %s", info.Container)
	}
	if info.Frames != ref.Length()/4 {
		t.Errorf("expected %d frames from decoded length, got %d", ref.Length()/4, info.Frames)
	}
	if info.Channels != 2 {
		t.Errorf("expected 2 channels, got %d", info.Channels)
	}
	if info.SampleRate != 44100 {
		t.Errorf("expected sample rate 44100, got %d", info.SampleRate)
	}
	if info.Encoding != audio.EncodingPCM16 {
		t.Errorf("expected PCM16, got %s", info.Encoding)
	}

	samples := make([]int16, info.Frames*2)
	n, err := ReadFull(f, samples)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if int64(n) != info.Frames {
		t.Fatalf("expected %d frames, got %d", info.Frames, n)
	}

	// Little-endian byte pairs become one sample each
	for i := 0; i < len(samples) && 2*i+1 < len(refBytes); i++ {
		want := int16(binary.LittleEndian.Uint16(refBytes[2*i:]))
		if samples[i] != want {
			t.Fatalf("sample %d: expected %d, got %d", i, want, samples[i])
		}
	}
}

func TestMP3ReadFramesSmallBuffer(t *testing.T) {
	f, err := NewRegistry().Open(filepath.Join("testdata", "padded.mp3"))
	if err != nil {
		t.Fatalf("failed to open mp3: %v", err)
	}
	defer f.Close()

	// A buffer holding less than one stereo frame decodes nothing
	if n, err := f.ReadFrames(make([]int16, 1)); n != 0 || err != nil {
		t.Errorf("expected (0, nil) for a one-sample buffer, got (%d, %v)", n, err)
	}

	total := 0
	dst := make([]int16, 2*100)
	for {
		n, err := f.ReadFrames(dst)
		total += n
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("decode failed after %d frames: %v", total, err)
		}
		if n == 0 {
			t.Fatal("decoder made no progress")
		}
	}
	if int64(total) != f.Info().Frames {
		t.Errorf("expected %d frames in 100-frame reads, got %d", f.Info().Frames, total)
	}
}
