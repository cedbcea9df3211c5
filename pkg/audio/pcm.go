// ABOUTME: PCM sample conversion helpers
// ABOUTME: Converts between int16, unsigned 8-bit, float and packed buffer bytes
package audio

import "encoding/binary"

// SampleToUint8 converts an int16 sample to unsigned 8-bit PCM
func SampleToUint8(sample int16) uint8 {
	// Keep the high byte and move the zero point to 128
	return uint8(int(sample>>8) + 128)
}

// SampleFromUint8 converts an unsigned 8-bit PCM sample to int16
func SampleFromUint8(sample uint8) int16 {
	return int16(int(sample)-128) << 8
}

// SampleFromFloat converts a float sample in [-1, 1] to int16, clipping out-of-range values
func SampleFromFloat(sample float64) int16 {
	if sample >= 1 {
		return 32767
	}
	if sample <= -1 {
		return -32768
	}
	return int16(sample * 32768)
}

// SampleToFloat converts an int16 sample to float in [-1, 1)
func SampleToFloat(sample int16) float64 {
	return float64(sample) / 32768
}

// PackPCM packs interleaved int16 samples into buffer bytes for format.
// 16-bit formats are little-endian signed, 8-bit formats are unsigned.
func PackPCM(format SampleFormat, samples []int16) []byte {
	switch format.BitDepth() {
	case 8:
		out := make([]byte, len(samples))
		for i, s := range samples {
			out[i] = SampleToUint8(s)
		}
		return out
	case 16:
		out := make([]byte, len(samples)*2)
		for i, s := range samples {
			binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
		}
		return out
	default:
		return nil
	}
}

// UnpackPCM is the inverse of PackPCM. Trailing bytes that do not form a sample are ignored.
func UnpackPCM(format SampleFormat, data []byte) []int16 {
	switch format.BitDepth() {
	case 8:
		out := make([]int16, len(data))
		for i, b := range data {
			out[i] = SampleFromUint8(b)
		}
		return out
	case 16:
		out := make([]int16, len(data)/2)
		for i := range out {
			out[i] = int16(binary.LittleEndian.Uint16(data[i*2:]))
		}
		return out
	default:
		return nil
	}
}
