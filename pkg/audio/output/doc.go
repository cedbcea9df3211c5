// ABOUTME: Audio output package modelling device, context, buffer and source handles
// ABOUTME: Provides the Driver interfaces, an oto implementation and a test Mock
// Package output provides the audio output collaborator used by the clip package.
//
// The model follows the classic device/context/buffer/source split:
//   - Driver opens a playback Device
//   - Device creates a rendering Context, which must be made current
//   - Context generates Buffers (decoded PCM) and Sources (playback voices)
//   - a Source plays the Buffer attached to it
//
// Oto is the production driver backed by ebitengine/oto. Mock records every
// call and simulates playback without audio hardware.
//
// Example:
//
//	drv := output.NewOto(output.OtoConfig{SampleRate: 44100, Channels: 2})
//	dev, err := drv.OpenDevice(output.DefaultDevice)
//	ctx, err := dev.CreateContext()
//	err = ctx.MakeCurrent()
//	buf, err := ctx.GenBuffer()
//	err = buf.Upload(audio.FormatMono16, pcm, 44100)
package output
