// ABOUTME: Tone subcommand
// ABOUTME: Writes a sine test tone clip for checking playback devices
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/chime-audio/chime/pkg/audio/tone"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newToneCommand(a *app) *cobra.Command {
	var (
		frequency float64
		duration  time.Duration
		rate      int
		channels  int
	)

	toneCmd := &cobra.Command{
		Use:   "tone OUT.wav",
		Short: "Write a sine test tone clip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if frequency <= 0 || duration <= 0 {
				return fmt.Errorf("frequency and duration must be positive")
			}
			if rate <= 0 {
				return fmt.Errorf("sample rate must be positive, got %d", rate)
			}
			if channels != 1 && channels != 2 {
				return fmt.Errorf("channel count must be 1 or 2, got %d", channels)
			}

			f, err := os.Create(args[0])
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", args[0], err)
			}

			g := tone.New(frequency, rate, duration)
			if err := g.WriteWAV(f, channels); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to close %s: %w", args[0], err)
			}

			size := uint64(g.Frames() * channels * 2)
			a.logger.Info("Wrote test tone", "path", args[0], "frequency", frequency, "duration", duration)
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %gHz for %s (%s of PCM)\n", args[0], frequency, duration, humanize.Bytes(size))
			return nil
		},
	}

	toneCmd.Flags().Float64VarP(&frequency, "frequency", "f", tone.DefaultFrequency, "tone frequency in Hz")
	toneCmd.Flags().DurationVarP(&duration, "duration", "d", time.Second, "tone length")
	toneCmd.Flags().IntVar(&rate, "rate", 44100, "sample rate in Hz")
	toneCmd.Flags().IntVar(&channels, "channels", 1, "channel count (1 or 2)")

	return toneCmd
}
