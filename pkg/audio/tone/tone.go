// ABOUTME: Sine test tone generator
// ABOUTME: Streams a fixed-length tone and writes it as a 16-bit WAV clip
package tone

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
)

// DefaultFrequency is the A4 reference pitch
const DefaultFrequency = 440.0

// Generator produces a sine wave of fixed length
type Generator struct {
	frequency  float64
	amplitude  float64
	sampleRate int
	frames     int
	pos        int
}

// New creates a generator of d at frequency Hz. Amplitude is 50% of full scale.
func New(frequency float64, sampleRate int, d time.Duration) *Generator {
	return &Generator{
		frequency:  frequency,
		amplitude:  0.5,
		sampleRate: sampleRate,
		frames:     int(d * time.Duration(sampleRate) / time.Second),
	}
}

// Frames returns the total length in frames
func (g *Generator) Frames() int {
	return g.frames
}

// Stream fills samples with the next frames of the tone, the same value on both channels
func (g *Generator) Stream(samples [][2]float64) (int, bool) {
	if g.pos >= g.frames {
		return 0, false
	}

	n := 0
	for n < len(samples) && g.pos < g.frames {
		t := float64(g.pos) / float64(g.sampleRate)
		v := g.amplitude * math.Sin(2*math.Pi*g.frequency*t)
		samples[n] = [2]float64{v, v}
		n++
		g.pos++
	}
	return n, true
}

// Err always returns nil
func (g *Generator) Err() error {
	return nil
}

// WriteWAV writes the tone as 16-bit PCM with the given channel count
func (g *Generator) WriteWAV(w io.WriteSeeker, channels int) error {
	if channels != 1 && channels != 2 {
		return fmt.Errorf("channels must be 1 or 2, got %d", channels)
	}
	if g.sampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive, got %d", g.sampleRate)
	}

	format := beep.Format{
		SampleRate:  beep.SampleRate(g.sampleRate),
		NumChannels: channels,
		Precision:   2,
	}
	if err := wav.Encode(w, g, format); err != nil {
		return fmt.Errorf("failed to encode tone: %w", err)
	}
	return nil
}
