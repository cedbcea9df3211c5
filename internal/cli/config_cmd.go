// ABOUTME: Config subcommand
// ABOUTME: Shows the effective configuration after files, env and flags
package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newConfigCommand(a *app) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect chime configuration",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()

			if used := a.v.ConfigFileUsed(); used != "" {
				fmt.Fprintf(w, "# %s\n", used)
			}

			keys := a.v.AllKeys()
			sort.Strings(keys)
			for _, key := range keys {
				fmt.Fprintf(w, "%s = %v\n", key, a.v.Get(key))
			}
			return nil
		},
	})

	return configCmd
}
