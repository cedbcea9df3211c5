// ABOUTME: WAV audio decoder
// ABOUTME: Decodes RIFF/WAVE PCM files through beep and describes float and 32-bit files
package decode

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chime-audio/chime/pkg/audio"
	"github.com/gopxl/beep/v2/wav"
)

// WAVE format tags
const (
	wavTagPCM        = 0x0001
	wavTagFloat      = 0x0003
	wavTagExtensible = 0xFFFE
)

// ErrNoSampleDecoder is returned when reading frames from a file whose
// sample format can be described but not decoded
var ErrNoSampleDecoder = errors.New("no decoder for sample format")

// WAV returns the RIFF/WAVE codec
func WAV() Codec {
	return Codec{
		Name:       "wav",
		Extensions: []string{".wav", ".wave"},
		Sniff: func(header []byte) bool {
			return len(header) >= 12 && hasPrefix(header, "RIFF") && string(header[8:12]) == "WAVE"
		},
		Open: openWAV,
	}
}

func openWAV(f *os.File) (File, error) {
	// beep rejects float and 32-bit data and closes f when it does, so those
	// headers are read here and reported without decoding
	hdr, err := readWAVHeader(f)
	if _, serr := f.Seek(0, io.SeekStart); serr != nil {
		return nil, fmt.Errorf("failed to rewind wav file: %w", serr)
	}
	if err == nil {
		if enc := hdr.encoding(); enc == audio.EncodingFloat32 || enc == audio.EncodingPCM32 {
			return &headerFile{file: f, info: hdr.info(enc)}, nil
		}
	}

	streamer, format, err := wav.Decode(f)
	if err != nil {
		return nil, err
	}
	// 8-bit WAV data is unsigned
	return newBeepFile(f, "wav", streamer, format, encodingForPrecision(format.Precision, false)), nil
}

type wavHeader struct {
	tag           uint16
	channels      uint16
	sampleRate    uint32
	bitsPerSample uint16
	dataSize      uint32
}

// readWAVHeader walks the RIFF chunks up to the start of the data chunk
func readWAVHeader(r io.Reader) (wavHeader, error) {
	var hdr wavHeader

	riff := make([]byte, 12)
	if _, err := io.ReadFull(r, riff); err != nil {
		return hdr, err
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return hdr, errors.New("not a RIFF/WAVE file")
	}

	haveFmt := false
	chunk := make([]byte, 8)
	for {
		if _, err := io.ReadFull(r, chunk); err != nil {
			return hdr, fmt.Errorf("missing data chunk: %w", err)
		}
		id := string(chunk[0:4])
		size := binary.LittleEndian.Uint32(chunk[4:8])

		switch id {
		case "fmt ":
			if size < 16 {
				return hdr, fmt.Errorf("format chunk too short: %d bytes", size)
			}
			body := make([]byte, size)
			if _, err := io.ReadFull(r, body); err != nil {
				return hdr, fmt.Errorf("short format chunk: %w", err)
			}
			hdr.tag = binary.LittleEndian.Uint16(body[0:2])
			hdr.channels = binary.LittleEndian.Uint16(body[2:4])
			hdr.sampleRate = binary.LittleEndian.Uint32(body[4:8])
			hdr.bitsPerSample = binary.LittleEndian.Uint16(body[14:16])
			// the extensible sub format GUID starts with the real tag
			if hdr.tag == wavTagExtensible && size >= 26 {
				hdr.tag = binary.LittleEndian.Uint16(body[24:26])
			}
			haveFmt = true
			if size%2 != 0 {
				if _, err := io.CopyN(io.Discard, r, 1); err != nil {
					return hdr, err
				}
			}
		case "data":
			if !haveFmt {
				return hdr, errors.New("data chunk before format chunk")
			}
			hdr.dataSize = size
			return hdr, nil
		default:
			skip := int64(size) + int64(size%2)
			if _, err := io.CopyN(io.Discard, r, skip); err != nil {
				return hdr, fmt.Errorf("short %q chunk: %w", id, err)
			}
		}
	}
}

func (h wavHeader) encoding() audio.Encoding {
	switch {
	case h.tag == wavTagFloat && h.bitsPerSample == 32:
		return audio.EncodingFloat32
	case h.tag == wavTagPCM && h.bitsPerSample == 32:
		return audio.EncodingPCM32
	case h.tag == wavTagPCM:
		return encodingForPrecision(int(h.bitsPerSample/8), false)
	default:
		return audio.EncodingUnknown
	}
}

func (h wavHeader) info(enc audio.Encoding) Info {
	var frames int64
	if frameSize := int64(h.channels) * int64(h.bitsPerSample/8); frameSize > 0 {
		frames = int64(h.dataSize) / frameSize
	}
	return Info{
		Container:  "wav",
		Frames:     frames,
		SampleRate: int(h.sampleRate),
		Channels:   int(h.channels),
		Encoding:   enc,
	}
}

// headerFile reports metadata for a file whose samples are never decoded
type headerFile struct {
	file *os.File
	info Info
}

func (h *headerFile) Info() Info {
	return h.info
}

func (h *headerFile) ReadFrames(dst []int16) (int, error) {
	return 0, fmt.Errorf("%w: %s", ErrNoSampleDecoder, h.info.Encoding)
}

func (h *headerFile) Close() error {
	return closeFile(h.file)
}
