// ABOUTME: Info subcommand
// ABOUTME: Prints clip metadata without opening an audio device
package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/chime-audio/chime/pkg/audio"
	"github.com/chime-audio/chime/pkg/audio/decode"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

func newInfoCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info FILE...",
		Short: "Show clip metadata",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := decode.NewRegistry()
			w := cmd.OutOrStdout()

			var errs error
			for i, path := range args {
				if i > 0 {
					fmt.Fprintln(w)
				}
				if err := printInfo(w, reg, path); err != nil {
					a.logger.Error("Failed to inspect clip", "path", path, "err", err)
					errs = multierr.Append(errs, err)
				}
			}
			return errs
		},
	}
}

func printInfo(w io.Writer, opener decode.Opener, path string) error {
	f, err := opener.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	info := f.Info()

	var duration time.Duration
	if info.SampleRate > 0 {
		duration = time.Duration(info.Frames) * time.Second / time.Duration(info.SampleRate)
	}

	fmt.Fprintf(w, "%s\n", path)
	fmt.Fprintf(w, "  Container:   %s\n", info.Container)
	fmt.Fprintf(w, "  Encoding:    %s\n", info.Encoding)
	fmt.Fprintf(w, "  Channels:    %d\n", info.Channels)
	fmt.Fprintf(w, "  Sample rate: %d Hz\n", info.SampleRate)
	fmt.Fprintf(w, "  Frames:      %s\n", humanize.Comma(info.Frames))
	fmt.Fprintf(w, "  Duration:    %s\n", duration.Round(time.Millisecond))

	format, err := audio.ResolveFormat(info.Channels, info.Encoding)
	if err != nil {
		fmt.Fprintf(w, "  Playable:    no (%v)\n", err)
		return nil
	}
	size := uint64(info.Frames) * uint64(format.FrameSize())
	fmt.Fprintf(w, "  Format:      %s\n", format)
	fmt.Fprintf(w, "  Buffer size: %s\n", humanize.Bytes(size))
	return nil
}
