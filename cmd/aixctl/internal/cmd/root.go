// Package cmd wires aixctl's subcommands onto a cobra root command.
package cmd

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var verbose bool

// Root builds the aixctl command tree.
func Root() *cobra.Command {
	root := &cobra.Command{
		Use:           "aixctl",
		Short:         "Encode, decode, recompress and query compressed chess games",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(encodeCmd(), decodeCmd(), recompressCmd(), queryCmd())
	return root
}
