package main

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var noColor bool

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "aic",
		Short: "Explore the Art Institute of Chicago and curate a personal gallery",
		Long: `aic searches the Art Institute of Chicago public catalog and keeps a
personal gallery of saved artworks with your notes, stored locally on
this machine.

Examples:
  aic search "van gogh"
  aic save 28560
  aic note 28560 Love the brushwork
  aic list`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors).
			_ = godotenv.Load()
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	root.AddCommand(searchCmd)
	root.AddCommand(showCmd)
	root.AddCommand(saveCmd)
	root.AddCommand(listCmd)
	root.AddCommand(noteCmd)
	root.AddCommand(removeCmd)
	root.AddCommand(clearCmd)
	root.AddCommand(exportCmd)
	root.AddCommand(serveCmd)
	root.AddCommand(mcpCmd)
	root.AddCommand(configCmd)

	return root
}
