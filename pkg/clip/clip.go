// ABOUTME: Clip loading and unloading
// ABOUTME: Decodes a whole file into a driver buffer with a dedicated source
package clip

import (
	"fmt"
	"time"

	"github.com/chime-audio/chime/pkg/audio"
	"github.com/chime-audio/chime/pkg/audio/decode"
	"github.com/chime-audio/chime/pkg/audio/output"
	"github.com/google/uuid"
	"go.uber.org/multierr"
)

// Clip is one decoded audio file resident in a driver buffer
type Clip struct {
	ID         uuid.UUID
	Path       string
	Container  string
	Frames     int64
	SampleRate int
	Channels   int
	Format     audio.SampleFormat
	Encoding   audio.Encoding

	file   decode.File
	buffer output.Buffer
	source output.Source
	size   int
}

// Duration returns the playback length of the clip
func (c *Clip) Duration() time.Duration {
	if c.SampleRate <= 0 {
		return 0
	}
	return time.Duration(c.Frames) * time.Second / time.Duration(c.SampleRate)
}

// Size returns the number of bytes uploaded to the clip buffer
func (c *Clip) Size() int {
	return c.size
}

// Load decodes the file at path into a new buffer and creates the clip's source.
// On failure every resource acquired for the clip is released before returning.
func (s *Subsystem) Load(path string) (*Clip, error) {
	if err := s.check(); err != nil {
		return nil, err
	}

	s.logger.Info("Load audio clip", "path", path)

	var u unwinder

	buffer, err := s.context.GenBuffer()
	if err != nil {
		return nil, s.fail(StageGenerateBuffer, path, err, &u)
	}
	u.push("buffer", buffer.Delete)

	source, err := s.context.GenSource()
	if err != nil {
		return nil, s.fail(StageGenerateSource, path, err, &u)
	}
	u.push("source", source.Delete)

	file, err := s.decoder.Open(path)
	if err != nil {
		return nil, s.fail(StageOpenFile, path, err, &u)
	}
	u.push("file", file.Close)

	info := file.Info()
	format, err := audio.ResolveFormat(info.Channels, info.Encoding)
	if err != nil {
		return nil, s.fail(StageUnsupportedFormat, path, err, &u)
	}
	if info.SampleRate <= 0 || info.Frames < 0 {
		err := fmt.Errorf("invalid stream parameters: %d frames at %dHz", info.Frames, info.SampleRate)
		return nil, s.fail(StageUnsupportedFormat, path, err, &u)
	}

	total := info.Frames * int64(info.Channels)
	if total > s.config.MaxSamples {
		err := fmt.Errorf("clip needs %d samples, limit is %d", total, s.config.MaxSamples)
		return nil, s.fail(StageAllocate, path, err, &u)
	}
	samples := make([]int16, total)

	n, err := decode.ReadFull(file, samples)
	if err != nil {
		return nil, s.fail(StageIncompleteRead, path, err, &u)
	}
	if int64(n) < info.Frames {
		err := fmt.Errorf("decoded %d of %d frames", n, info.Frames)
		return nil, s.fail(StageIncompleteRead, path, err, &u)
	}

	data := audio.PackPCM(format, samples)
	size := len(data)
	if err := buffer.Upload(format, data, info.SampleRate); err != nil {
		return nil, s.fail(StageUpload, path, err, &u)
	}

	c := &Clip{
		ID:         uuid.New(),
		Path:       path,
		Container:  info.Container,
		Frames:     info.Frames,
		SampleRate: info.SampleRate,
		Channels:   info.Channels,
		Format:     format,
		Encoding:   info.Encoding,
		file:       file,
		buffer:     buffer,
		source:     source,
		size:       size,
	}

	s.mu.Lock()
	s.clips[c.ID] = c
	s.mu.Unlock()

	s.logger.Debug("Loaded audio clip",
		"clip", c.ID,
		"path", path,
		"format", format,
		"sample_rate", c.SampleRate,
		"frames", c.Frames,
		"duration", c.Duration())

	return c, nil
}

// Unload releases the clip's file, source and buffer in that order. All three
// are released even if one fails.
func (s *Subsystem) Unload(c *Clip) error {
	if err := s.check(); err != nil {
		return err
	}
	return s.unload(c)
}

func (s *Subsystem) unload(c *Clip) error {
	if c == nil {
		return ErrClipNotLoaded
	}

	s.mu.Lock()
	if _, ok := s.clips[c.ID]; !ok {
		s.mu.Unlock()
		return ErrClipNotLoaded
	}
	delete(s.clips, c.ID)
	file, source, buffer := c.file, c.source, c.buffer
	c.file, c.source, c.buffer = nil, nil, nil
	s.mu.Unlock()

	var err error
	if cerr := file.Close(); cerr != nil {
		err = multierr.Append(err, fmt.Errorf("failed to close clip file: %w", cerr))
	}
	if cerr := source.Delete(); cerr != nil {
		err = multierr.Append(err, fmt.Errorf("failed to delete clip source: %w", cerr))
	}
	if cerr := buffer.Delete(); cerr != nil {
		err = multierr.Append(err, fmt.Errorf("failed to delete clip buffer: %w", cerr))
	}

	if err != nil {
		s.logger.Error("Failed to unload audio clip", "clip", c.ID, "path", c.Path, "err", err)
		return err
	}
	s.logger.Debug("Unloaded audio clip", "clip", c.ID, "path", c.Path)
	return nil
}
