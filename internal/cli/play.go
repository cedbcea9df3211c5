// ABOUTME: Play subcommand
// ABOUTME: Loads and plays clips one after another, optionally with a TUI
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/chime-audio/chime/internal/ui"
	"github.com/chime-audio/chime/internal/version"
	"github.com/chime-audio/chime/pkg/clip"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

func newPlayCommand(a *app) *cobra.Command {
	var (
		useTUI  bool
		logFile string
	)

	playCmd := &cobra.Command{
		Use:   "play FILE...",
		Short: "Play audio clips in order",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !useTUI {
				return a.play(cmd.Context(), args, a.logger, nil)
			}

			// TUI mode: log only to file
			f, err := os.OpenFile(logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666)
			if err != nil {
				return fmt.Errorf("error opening log file: %w", err)
			}
			defer func() { _ = f.Close() }()

			logger := a.logger.With()
			logger.SetOutput(f)

			return a.playWithTUI(cmd.Context(), args, logger)
		},
	}

	playCmd.Flags().BoolVarP(&useTUI, "tui", "t", false, "show playback progress in a TUI")
	playCmd.Flags().StringVar(&logFile, "log-file", "chime.log", "log file path in TUI mode")
	playCmd.Flags().String("device", "", "playback device (default: system default)")
	playCmd.Flags().Float64("volume", 0, "playback volume in (0, 1] (default from config)")
	playCmd.Flags().Duration("poll-interval", 0, "playback state polling period (default from config)")

	return playCmd
}

// play initializes the subsystem and plays paths in order. Clips that fail to
// load are skipped; their errors are returned together at the end.
func (a *app) play(ctx context.Context, paths []string, logger *log.Logger, status func(ui.StatusMsg)) error {
	if status == nil {
		status = func(ui.StatusMsg) {}
	}

	logger.Info("Starting "+version.Product, "version", version.Version, "clips", len(paths))

	sys, err := clip.Init(clip.Config{
		Driver:       a.driver(logger),
		DeviceName:   a.cfg.Audio.Device,
		PollInterval: a.cfg.Audio.PollInterval,
		Gain:         a.cfg.Audio.Volume,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	var errs error
	for i, path := range paths {
		if ctx.Err() != nil {
			break
		}

		status(ui.StatusMsg{Index: i + 1, Total: len(paths), Path: path, State: ui.StateLoading})

		err := a.playOne(ctx, sys, path, status)
		if err != nil && !errors.Is(err, context.Canceled) {
			status(ui.StatusMsg{Path: path, State: ui.StateFailed, Err: err})
			errs = multierr.Append(errs, err)
		}
	}

	errs = multierr.Append(errs, sys.Quit())
	return errs
}

func (a *app) playOne(ctx context.Context, sys *clip.Subsystem, path string, status func(ui.StatusMsg)) (err error) {
	c, err := sys.Load(path)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, sys.Unload(c))
	}()

	status(ui.StatusMsg{
		Path:       path,
		Format:     c.Format.String(),
		SampleRate: c.SampleRate,
		Channels:   c.Channels,
		Duration:   c.Duration(),
		Size:       c.Size(),
		State:      ui.StatePlaying,
	})

	if err := sys.Play(ctx, c); err != nil {
		return err
	}

	status(ui.StatusMsg{Path: path, State: ui.StateFinished})
	return nil
}

// playWithTUI runs playback while a bubbletea program shows progress
func (a *app) playWithTUI(ctx context.Context, paths []string, logger *log.Logger) error {
	ctrl := ui.NewControl()
	prog := ui.Run(ctrl)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	tuiDone := make(chan error, 1)
	go func() {
		_, err := prog.Run()
		tuiDone <- err
		// Closing the TUI stops playback
		cancel()
	}()

	go func() {
		select {
		case <-ctrl.Quit:
			cancel()
		case <-ctx.Done():
		}
	}()

	err := a.play(ctx, paths, logger, func(msg ui.StatusMsg) {
		prog.Send(msg)
	})

	prog.Send(ui.DoneMsg{})
	if terr := <-tuiDone; terr != nil && !errors.Is(terr, tea.ErrProgramKilled) {
		err = multierr.Append(err, fmt.Errorf("TUI error: %w", terr))
	}
	return err
}
