// ABOUTME: Audio file decoding package for multiple container formats
// ABOUTME: Provides File/Opener interfaces and WAV, FLAC, Vorbis, MP3 codecs
// Package decode opens audio files and decodes them to interleaved int16 PCM.
//
// Supports: WAV, FLAC, Ogg Vorbis (via beep) and MP3 (via go-mp3).
//
// A Registry detects the container from the first bytes of the file, falling
// back to the file extension. Every opened File reports its metadata up front
// (frame count, sample rate, channel count, sample encoding) and decodes frames
// as 16-bit samples regardless of the source bit depth.
//
// Example:
//
//	reg := decode.NewRegistry()
//	f, err := reg.Open("clip.wav")
//	info := f.Info()
//	samples := make([]int16, info.Frames*int64(info.Channels))
//	n, err := decode.ReadFull(f, samples)
package decode
