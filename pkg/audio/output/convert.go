// ABOUTME: PCM conversion from uploaded buffer data to the device format
// ABOUTME: Handles channel remixing and sample rate conversion
package output

import (
	"fmt"

	"github.com/chime-audio/chime/pkg/audio"
	"github.com/chime-audio/chime/pkg/audio/resample"
)

// validateUpload checks buffer data against its declared format
func validateUpload(format audio.SampleFormat, data []byte, sampleRate int) error {
	if !format.Valid() {
		return fmt.Errorf("%w: unknown sample format", ErrInvalidValue)
	}
	if sampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be positive, got %d", ErrInvalidValue, sampleRate)
	}
	if len(data)%format.FrameSize() != 0 {
		return fmt.Errorf("%w: %d bytes is not a whole number of %s frames",
			ErrInvalidValue, len(data), format)
	}
	return nil
}

// remix converts interleaved samples between mono and stereo
func remix(samples []int16, from, to int) []int16 {
	if from == to {
		return samples
	}

	frames := len(samples) / from
	out := make([]int16, frames*to)

	switch {
	case from == 1 && to == 2:
		for i := 0; i < frames; i++ {
			out[i*2] = samples[i]
			out[i*2+1] = samples[i]
		}
	case from == 2 && to == 1:
		for i := 0; i < frames; i++ {
			out[i] = int16((int32(samples[i*2]) + int32(samples[i*2+1])) / 2)
		}
	}

	return out
}

// convertPCM converts data to device-format PCM at deviceRate
func convertPCM(format audio.SampleFormat, data []byte, sampleRate, deviceRate int, device audio.SampleFormat) []byte {
	samples := audio.UnpackPCM(format, data)
	samples = remix(samples, format.Channels(), device.Channels())
	if sampleRate != deviceRate {
		samples = resample.Convert(samples, sampleRate, deviceRate, device.Channels())
	}
	return audio.PackPCM(device, samples)
}
