package main

import (
	"github.com/spf13/cobra"
)

type runFlags struct {
	configPath string
	debug      bool
	fresh      bool
	share      bool
	open       string
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "Path to YAML configuration file")
	cmd.Flags().BoolVarP(&f.debug, "debug", "d", false, "Enable debug logging")
	cmd.Flags().BoolVar(&f.fresh, "fresh", false, "Start with an empty board instead of the last autosave")
	cmd.Flags().BoolVar(&f.share, "share", false, "Share the board read-only on the local network")
	cmd.Flags().StringVar(&f.open, "open", "", "Open a saved document on start")
}

func buildRunCmd() *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open the drawing window",
		Example: `  # Continue where you left off
  localnotes run

  # Start empty and share with the local network
  localnotes run --fresh --share`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBoard(cmd.Context(), flags)
		},
	}
	flags.register(cmd)
	return cmd
}

func buildJoinCmd() *cobra.Command {
	var (
		configPath string
		debug      bool
	)
	cmd := &cobra.Command{
		Use:   "join [share-link]",
		Short: "View a board shared on the local network",
		Long: `View a board shared by another LocalNotes instance.

Without a link the first host found over mDNS is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			link := ""
			if len(args) == 1 {
				link = args[0]
			}
			return runJoin(cmd.Context(), link, configPath, debug)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to YAML configuration file")
	cmd.Flags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")
	return cmd
}

func buildExportCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render a saved document",
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to YAML configuration file")

	pdfCmd := &cobra.Command{
		Use:   "pdf <document.json> <out.pdf>",
		Short: "Render every page into one A4 PDF",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExportPDF(cmd.OutOrStdout(), configPath, args[0], args[1])
		},
	}

	var page int
	pngCmd := &cobra.Command{
		Use:   "png <document.json> <out.png>",
		Short: "Render one page as a PNG image",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExportPNG(cmd.OutOrStdout(), configPath, args[0], args[1], page)
		},
	}
	pngCmd.Flags().IntVarP(&page, "page", "p", 1, "Page number, starting at 1")

	cmd.AddCommand(pdfCmd, pngCmd)
	return cmd
}

func buildInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <document.json>",
		Short: "Validate a document and summarise its pages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd.OutOrStdout(), args[0])
		},
	}
}
