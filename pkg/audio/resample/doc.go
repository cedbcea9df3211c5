// ABOUTME: Audio resampling package using linear interpolation
// ABOUTME: Converts int16 PCM between different sample rates
// Package resample provides audio sample rate conversion.
//
// Uses linear interpolation for converting between sample rates.
// Handles both upsampling and downsampling, either chunk by chunk with a
// Resampler or for a whole clip at once with Convert.
//
// Example:
//
//	out := resample.Convert(samples, 22050, 44100, 2)
package resample
