// ABOUTME: Cobra command tree for the chime CLI
// ABOUTME: Wires configuration and logging shared by every subcommand
package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/chime-audio/chime/internal/config"
	"github.com/chime-audio/chime/internal/logging"
	"github.com/chime-audio/chime/internal/version"
	"github.com/chime-audio/chime/pkg/audio/output"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Options lets hosts and tests replace collaborators of the CLI
type Options struct {
	// Driver overrides the audio driver (default: oto with configured format)
	Driver output.Driver

	// LogOutput receives logs when the TUI is not running (default: stderr)
	LogOutput io.Writer
}

// app holds state shared by commands during one execution
type app struct {
	opts       Options
	v          *viper.Viper
	configFile string
	cfg        *config.Config
	logger     *log.Logger
}

// NewRootCommand builds the chime command tree
func NewRootCommand(opts Options) *cobra.Command {
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}
	a := &app{opts: opts}

	rootCmd := &cobra.Command{
		Use:           "chime",
		Short:         "Play audio clips from the command line",
		Long:          "chime decodes WAV, FLAC, Ogg Vorbis and MP3 clips into memory and plays them on the default audio device.",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default ./config.yaml or $HOME/.chime/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "log format (text, json, logfmt)")

	rootCmd.AddCommand(
		newPlayCommand(a),
		newInfoCommand(a),
		newToneCommand(a),
		newConfigCommand(a),
		newVersionCommand(),
	)

	return rootCmd
}

// load reads configuration and sets up logging for cmd
func (a *app) load(cmd *cobra.Command) error {
	a.v = config.New(a.configFile)

	bind := map[string]string{
		"logging.level":       "log-level",
		"logging.format":      "log-format",
		"audio.device":        "device",
		"audio.volume":        "volume",
		"audio.poll_interval": "poll-interval",
	}
	for key, flag := range bind {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := a.v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}

	if err := config.Read(a.v); err != nil {
		return err
	}

	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logging.Setup(cfg.Logging.Level, cfg.Logging.Format, a.opts.LogOutput)

	if used := a.v.ConfigFileUsed(); used != "" {
		a.logger.Debug("Using configuration file", "path", used)
	}
	return nil
}

// driver returns the audio driver for the loaded configuration
func (a *app) driver(logger *log.Logger) output.Driver {
	if a.opts.Driver != nil {
		return a.opts.Driver
	}
	return output.NewOto(output.OtoConfig{
		SampleRate: a.cfg.Audio.SampleRate,
		Channels:   a.cfg.Audio.Channels,
		BufferSize: a.cfg.Audio.BufferSize,
		Logger:     logger,
	})
}

// Execute runs the CLI with process arguments
func Execute(ctx context.Context) error {
	return NewRootCommand(Options{}).ExecuteContext(ctx)
}
