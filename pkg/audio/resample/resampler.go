// ABOUTME: Simple linear resampler for converting audio sample rates
// ABOUTME: Used by output drivers to match clip PCM to the device rate
package resample

// Resampler performs linear interpolation to convert between sample rates
type Resampler struct {
	inputRate  int
	outputRate int
	channels   int
	ratio      float64
	position   float64
}

// New creates a new resampler
func New(inputRate, outputRate, channels int) *Resampler {
	return &Resampler{
		inputRate:  inputRate,
		outputRate: outputRate,
		channels:   channels,
		ratio:      float64(inputRate) / float64(outputRate),
	}
}

// Resample converts a chunk of interleaved input samples into output and
// returns the number of output samples written. The fractional read position
// carries over to the next chunk.
func (r *Resampler) Resample(input []int16, output []int16) int {
	if len(input) == 0 {
		return 0
	}

	inputFrames := len(input) / r.channels
	outputFrames := len(output) / r.channels

	outIdx := 0
	for outIdx < outputFrames {
		inputIdx := int(r.position)

		// Interpolation needs the next frame too
		if inputIdx >= inputFrames-1 {
			break
		}

		frac := r.position - float64(inputIdx)
		for ch := 0; ch < r.channels; ch++ {
			a := input[inputIdx*r.channels+ch]
			b := input[(inputIdx+1)*r.channels+ch]
			output[outIdx*r.channels+ch] = lerp(a, b, frac)
		}

		outIdx++
		r.position += r.ratio
	}

	r.position -= float64(int(r.position))

	return outIdx * r.channels
}

// Reset resets the resampler state
func (r *Resampler) Reset() {
	r.position = 0.0
}

// OutputSamplesNeeded calculates how many output samples will be produced from input samples
func (r *Resampler) OutputSamplesNeeded(inputSamples int) int {
	inputFrames := inputSamples / r.channels
	outputFrames := int(float64(inputFrames) / r.ratio)
	return outputFrames * r.channels
}

// Convert resamples a complete interleaved clip. Unlike Resample it keeps the
// final input frame, so a clip of n frames becomes ceil(n*outputRate/inputRate) frames.
func Convert(input []int16, inputRate, outputRate, channels int) []int16 {
	if inputRate == outputRate || channels <= 0 {
		out := make([]int16, len(input))
		copy(out, input)
		return out
	}

	inputFrames := len(input) / channels
	if inputFrames == 0 {
		return nil
	}

	outputFrames := (inputFrames*outputRate + inputRate - 1) / inputRate
	ratio := float64(inputRate) / float64(outputRate)
	output := make([]int16, outputFrames*channels)

	for i := 0; i < outputFrames; i++ {
		pos := float64(i) * ratio
		idx := int(pos)
		if idx >= inputFrames-1 {
			copy(output[i*channels:(i+1)*channels], input[(inputFrames-1)*channels:inputFrames*channels])
			continue
		}
		frac := pos - float64(idx)
		for ch := 0; ch < channels; ch++ {
			output[i*channels+ch] = lerp(input[idx*channels+ch], input[(idx+1)*channels+ch], frac)
		}
	}

	return output
}

func lerp(a, b int16, frac float64) int16 {
	return int16(float64(a)*(1.0-frac) + float64(b)*frac)
}
