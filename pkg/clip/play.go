// ABOUTME: Blocking clip playback
// ABOUTME: Starts a clip's source and polls its state until playback ends
package clip

import (
	"context"
	"time"

	"github.com/chime-audio/chime/pkg/audio/output"
)

// Play attaches the clip buffer to its source, starts playback and blocks,
// checking the source state once per PollInterval until it stops playing.
// If ctx is cancelled first, the source is stopped and ctx.Err() is returned.
func (s *Subsystem) Play(ctx context.Context, c *Clip) error {
	if err := s.check(); err != nil {
		return err
	}

	source, buffer, err := s.handles(c)
	if err != nil {
		return err
	}

	if err := source.Attach(buffer); err != nil {
		return s.playFailed(c, err)
	}
	if err := source.SetGain(s.config.Gain); err != nil {
		return s.playFailed(c, err)
	}
	if err := source.Play(); err != nil {
		return s.playFailed(c, err)
	}

	s.logger.Info("Play audio clip", "path", c.Path, "duration", c.Duration())
	start := time.Now()

	ticker := time.NewTicker(s.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if err := source.Stop(); err != nil {
				s.logger.Warn("Failed to stop clip source", "path", c.Path, "err", err)
			}
			s.logger.Debug("Playback cancelled", "path", c.Path, "elapsed", time.Since(start))
			return ctx.Err()

		case <-ticker.C:
			state, err := source.State()
			if err != nil {
				return s.playFailed(c, err)
			}
			if state != output.SourcePlaying {
				s.logger.Debug("Playback finished", "path", c.Path, "elapsed", time.Since(start))
				return nil
			}
		}
	}
}

// PlayAsync runs Play in a goroutine. The returned channel receives exactly one
// result and is then closed.
func (s *Subsystem) PlayAsync(ctx context.Context, c *Clip) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		done <- s.Play(ctx, c)
	}()
	return done
}

// handles returns the source and buffer of a clip loaded on this subsystem
func (s *Subsystem) handles(c *Clip) (output.Source, output.Buffer, error) {
	if c == nil {
		return nil, nil, ErrClipNotLoaded
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clips[c.ID]; !ok {
		return nil, nil, ErrClipNotLoaded
	}
	return c.source, c.buffer, nil
}

func (s *Subsystem) playFailed(c *Clip, err error) error {
	s.logger.Error("Failed to "+StagePlay.Reason(), "path", c.Path, "err", err)
	return &StageError{Stage: StagePlay, Path: c.Path, Err: err}
}
