// ABOUTME: Audio type definitions
// ABOUTME: Defines encodings, output sample formats and format resolution
package audio

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedEncoding is returned for encodings other than 8-bit and 16-bit PCM
	ErrUnsupportedEncoding = errors.New("unsupported sample encoding")

	// ErrUnsupportedChannels is returned for channel counts other than mono and stereo
	ErrUnsupportedChannels = errors.New("unsupported channel count")
)

// Encoding is the sample encoding a decoder reports for an opened file
type Encoding int

const (
	EncodingUnknown Encoding = iota
	EncodingPCMS8
	EncodingPCMU8
	EncodingPCM16
	EncodingPCM24
	EncodingPCM32
	EncodingFloat32
)

// BitDepth returns the number of bits per sample, 0 if unknown
func (e Encoding) BitDepth() int {
	switch e {
	case EncodingPCMS8, EncodingPCMU8:
		return 8
	case EncodingPCM16:
		return 16
	case EncodingPCM24:
		return 24
	case EncodingPCM32, EncodingFloat32:
		return 32
	default:
		return 0
	}
}

func (e Encoding) String() string {
	switch e {
	case EncodingPCMS8:
		return "pcm-s8"
	case EncodingPCMU8:
		return "pcm-u8"
	case EncodingPCM16:
		return "pcm-16"
	case EncodingPCM24:
		return "pcm-24"
	case EncodingPCM32:
		return "pcm-32"
	case EncodingFloat32:
		return "float-32"
	default:
		return "unknown"
	}
}

// SampleFormat is the format of PCM data held by an output buffer
type SampleFormat int

const (
	FormatUnknown SampleFormat = iota
	FormatMono8
	FormatStereo8
	FormatMono16
	FormatStereo16
)

// Channels returns the channel count of the format
func (f SampleFormat) Channels() int {
	switch f {
	case FormatMono8, FormatMono16:
		return 1
	case FormatStereo8, FormatStereo16:
		return 2
	default:
		return 0
	}
}

// BitDepth returns bits per sample of the format
func (f SampleFormat) BitDepth() int {
	switch f {
	case FormatMono8, FormatStereo8:
		return 8
	case FormatMono16, FormatStereo16:
		return 16
	default:
		return 0
	}
}

// BytesPerSample returns the size of one sample of one channel
func (f SampleFormat) BytesPerSample() int {
	return f.BitDepth() / 8
}

// FrameSize returns the size in bytes of one frame (one sample for every channel)
func (f SampleFormat) FrameSize() int {
	return f.Channels() * f.BytesPerSample()
}

// Valid reports whether f is one of the four buffer formats
func (f SampleFormat) Valid() bool {
	return f >= FormatMono8 && f <= FormatStereo16
}

func (f SampleFormat) String() string {
	switch f {
	case FormatMono8:
		return "mono-8"
	case FormatStereo8:
		return "stereo-8"
	case FormatMono16:
		return "mono-16"
	case FormatStereo16:
		return "stereo-16"
	default:
		return "unknown"
	}
}

// ResolveFormat maps a channel count and decode encoding to an output buffer format.
// Only 8-bit (signed or unsigned) and 16-bit PCM in mono or stereo are accepted.
func ResolveFormat(channels int, enc Encoding) (SampleFormat, error) {
	if channels != 1 && channels != 2 {
		return FormatUnknown, fmt.Errorf("%w: %d", ErrUnsupportedChannels, channels)
	}

	switch enc {
	case EncodingPCMS8, EncodingPCMU8:
		if channels == 1 {
			return FormatMono8, nil
		}
		return FormatStereo8, nil
	case EncodingPCM16:
		if channels == 1 {
			return FormatMono16, nil
		}
		return FormatStereo16, nil
	default:
		return FormatUnknown, fmt.Errorf("%w: %s", ErrUnsupportedEncoding, enc)
	}
}
