// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines sample formats, decode encodings and PCM packing helpers
// Package audio provides fundamental audio types shared by the decode, output and clip packages.
//
// This package defines:
//   - Encoding: the sample encoding a decoder reports for a file (PCM 8/16/24/32-bit, float)
//   - SampleFormat: the output buffer format (mono-8, stereo-8, mono-16, stereo-16)
//
// It also provides utilities for moving PCM between representations:
//   - int16 ↔ unsigned 8-bit conversions
//   - float ↔ int16 conversions
//   - packing int16 frames into buffer bytes and back
//
// Example:
//
//	format, err := audio.ResolveFormat(2, audio.EncodingPCM16)
//	// format == audio.FormatStereo16
//	data := audio.PackPCM(format, samples)
package audio
