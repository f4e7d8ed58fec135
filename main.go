// Package main is the LocalNotes desktop notebook.
//
// Start drawing (the board from the last session is restored):
//
//	localnotes
//
// Share the board read-only with devices on the local network:
//
//	localnotes run --share
//
// Watch a shared board, by link or by mDNS discovery:
//
//	localnotes join localnotes://192.168.1.20:8888
//	localnotes join
//
// Render a saved document:
//
//	localnotes export pdf drawing.json drawing.pdf
//	localnotes export png drawing.json page2.png --page 2
//
// # Environment Variables
//
//   - LOCALNOTES_CONFIG: Path to configuration file (default: localnotes.yaml)
//   - LOCALNOTES_PORT: Share host port
//   - LOCALNOTES_DATA_DIR: Autosave directory
//   - LOCALNOTES_LOG_LEVEL: debug, info, warn or error
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	rootCmd := buildRootCmd()
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command execution failed", "error", err)
		os.Exit(1)
	}
}

// buildRootCmd creates the root command with all subcommands attached.
// Without a subcommand it behaves like "run", or like "join" when the only
// argument is a share link.
func buildRootCmd() *cobra.Command {
	var flags runFlags
	rootCmd := &cobra.Command{
		Use:          "localnotes [share-link]",
		Short:        "LocalNotes - a multi-page freehand notebook",
		Version:      fmt.Sprintf("%s (commit: %s)", version, commit),
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if !isShareLink(args[0]) {
					return fmt.Errorf("unexpected argument %q", args[0])
				}
				return runJoin(cmd.Context(), args[0], flags.configPath, flags.debug)
			}
			return runBoard(cmd.Context(), flags)
		},
	}
	flags.register(rootCmd)

	rootCmd.AddCommand(
		buildRunCmd(),
		buildJoinCmd(),
		buildExportCmd(),
		buildInfoCmd(),
	)
	return rootCmd
}
