// ABOUTME: FLAC audio decoder
// ABOUTME: Reads the STREAMINFO bit depth with mewkiz/flac and decodes through beep
package decode

import (
	"fmt"
	"io"
	"os"

	"github.com/chime-audio/chime/pkg/audio"
	"github.com/gopxl/beep/v2/flac"
	mewflac "github.com/mewkiz/flac"
)

// FLAC returns the FLAC codec
func FLAC() Codec {
	return Codec{
		Name:       "flac",
		Extensions: []string{".flac"},
		Sniff: func(header []byte) bool {
			return hasPrefix(header, "fLaC")
		},
		Open: openFLAC,
	}
}

func openFLAC(f *os.File) (File, error) {
	// beep rounds the sample size down to whole bytes
	stream, err := mewflac.New(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read flac stream info: %w", err)
	}
	bits := stream.Info.BitsPerSample
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind flac file: %w", err)
	}

	streamer, format, err := flac.Decode(f)
	if err != nil {
		return nil, err
	}
	return newBeepFile(f, "flac", streamer, format, flacEncoding(bits)), nil
}

// flacEncoding maps a STREAMINFO sample size to an encoding. FLAC samples
// are signed at every depth; depths that are not whole bytes have no encoding.
func flacEncoding(bitsPerSample uint8) audio.Encoding {
	if bitsPerSample%8 != 0 {
		return audio.EncodingUnknown
	}
	return encodingForPrecision(int(bitsPerSample/8), true)
}
