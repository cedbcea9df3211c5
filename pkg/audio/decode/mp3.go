// ABOUTME: MP3 audio decoder
// ABOUTME: Decodes MP3 files to 16-bit stereo samples with go-mp3
package decode

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chime-audio/chime/pkg/audio"
	"github.com/hajimehoshi/go-mp3"
)

// go-mp3 always produces 16-bit little-endian stereo
const (
	mp3Channels  = 2
	mp3FrameSize = 4
)

// MP3 returns the MP3 codec
func MP3() Codec {
	return Codec{
		Name:       "mp3",
		Extensions: []string{".mp3"},
		Sniff: func(header []byte) bool {
			if hasPrefix(header, "ID3") {
				return true
			}
			// MPEG audio frame sync
			return len(header) >= 2 && header[0] == 0xFF && header[1]&0xE0 == 0xE0
		},
		Open: openMP3,
	}
}

// MP3Decoder decodes MP3 audio
type MP3Decoder struct {
	file    *os.File
	decoder *mp3.Decoder
	info    Info
	buf     []byte
}

func openMP3(f *os.File) (File, error) {
	decoder, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, fmt.Errorf("failed to create mp3 decoder: %w", err)
	}

	length := decoder.Length()
	if length < 0 {
		return nil, errors.New("mp3 length is unknown")
	}

	return &MP3Decoder{
		file:    f,
		decoder: decoder,
		info: Info{
			Container:  "mp3",
			Frames:     length / mp3FrameSize,
			SampleRate: decoder.SampleRate(),
			Channels:   mp3Channels,
			Encoding:   audio.EncodingPCM16,
		},
	}, nil
}

// Info returns the decoded stream metadata
func (d *MP3Decoder) Info() Info {
	return d.info
}

// ReadFrames decodes MP3 bytes into int16 frames
func (d *MP3Decoder) ReadFrames(dst []int16) (int, error) {
	frames := len(dst) / mp3Channels
	if frames == 0 {
		return 0, nil
	}
	if frames > chunkFrames {
		frames = chunkFrames
	}

	need := frames * mp3FrameSize
	if cap(d.buf) < need {
		d.buf = make([]byte, chunkFrames*mp3FrameSize)
	}
	buf := d.buf[:need]

	n, err := io.ReadFull(d.decoder, buf)
	got := n / mp3FrameSize
	for i := 0; i < got*mp3Channels; i++ {
		dst[i] = int16(binary.LittleEndian.Uint16(buf[i*2:]))
	}

	switch {
	case err == nil:
		return got, nil
	case errors.Is(err, io.ErrUnexpectedEOF):
		return got, nil
	case errors.Is(err, io.EOF):
		if got == 0 {
			return 0, io.EOF
		}
		return got, nil
	default:
		return got, fmt.Errorf("mp3 decode error: %w", err)
	}
}

// Close releases decoder resources
func (d *MP3Decoder) Close() error {
	return closeFile(d.file)
}
