// ABOUTME: Ogg Vorbis audio decoder
// ABOUTME: Decodes Vorbis files through beep as 16-bit PCM
package decode

import (
	"os"

	"github.com/chime-audio/chime/pkg/audio"
	"github.com/gopxl/beep/v2/vorbis"
)

// Vorbis returns the Ogg Vorbis codec
func Vorbis() Codec {
	return Codec{
		Name:       "vorbis",
		Extensions: []string{".ogg", ".oga"},
		Sniff: func(header []byte) bool {
			return hasPrefix(header, "OggS")
		},
		Open: openVorbis,
	}
}

func openVorbis(f *os.File) (File, error) {
	streamer, format, err := vorbis.Decode(f)
	if err != nil {
		return nil, err
	}
	// Lossy audio has no source bit depth; it is decoded as 16-bit
	return newBeepFile(f, "vorbis", streamer, format, audio.EncodingPCM16), nil
}
