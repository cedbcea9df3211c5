// ABOUTME: Adapter from beep streamers to the File interface
// ABOUTME: Converts beep float frames to interleaved int16 samples
package decode

import (
	"io"
	"os"

	"github.com/chime-audio/chime/pkg/audio"
	"github.com/gopxl/beep/v2"
	"go.uber.org/multierr"
)

// chunkFrames bounds the scratch buffer used per Stream call
const chunkFrames = 4096

// beepFile decodes through a beep.StreamSeekCloser
type beepFile struct {
	file     *os.File
	streamer beep.StreamSeekCloser
	info     Info
	scratch  [][2]float64
}

func newBeepFile(f *os.File, container string, streamer beep.StreamSeekCloser, format beep.Format, enc audio.Encoding) *beepFile {
	return &beepFile{
		file:     f,
		streamer: streamer,
		info: Info{
			Container:  container,
			Frames:     int64(streamer.Len()),
			SampleRate: int(format.SampleRate),
			Channels:   format.NumChannels,
			Encoding:   enc,
		},
	}
}

func (b *beepFile) Info() Info {
	return b.info
}

func (b *beepFile) ReadFrames(dst []int16) (int, error) {
	channels := b.info.Channels
	want := len(dst) / channels
	if want == 0 {
		return 0, nil
	}
	if want > chunkFrames {
		want = chunkFrames
	}
	if cap(b.scratch) < want {
		b.scratch = make([][2]float64, chunkFrames)
	}
	buf := b.scratch[:want]

	n, ok := b.streamer.Stream(buf)
	for i := 0; i < n; i++ {
		// beep duplicates mono into both channels
		for ch := 0; ch < channels && ch < 2; ch++ {
			dst[i*channels+ch] = audio.SampleFromFloat(buf[i][ch])
		}
	}

	if n == 0 && !ok {
		if err := b.streamer.Err(); err != nil {
			return 0, err
		}
		return 0, io.EOF
	}
	return n, nil
}

func (b *beepFile) Close() error {
	return multierr.Append(b.streamer.Close(), closeFile(b.file))
}

// encodingForPrecision maps beep's bytes-per-sample precision to an encoding.
// signed8 selects the 8-bit signedness of the container.
func encodingForPrecision(precision int, signed8 bool) audio.Encoding {
	switch precision {
	case 1:
		if signed8 {
			return audio.EncodingPCMS8
		}
		return audio.EncodingPCMU8
	case 2:
		return audio.EncodingPCM16
	case 3:
		return audio.EncodingPCM24
	case 4:
		return audio.EncodingPCM32
	default:
		return audio.EncodingUnknown
	}
}
