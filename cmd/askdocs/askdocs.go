// Package askdocscmder
package askdocscmder

import (
	"github.com/spf13/cobra"

	initcmder "github.com/papergrid/askdocs/cmd/askdocs/initcmd"
	servecmder "github.com/papergrid/askdocs/cmd/askdocs/serve"
	versioncmder "github.com/papergrid/askdocs/cmd/version"
)

const askdocsLongDesc string = `Askdocs answers questions over your document corpus.

Each question is rewritten into a standalone search query, matched against
an embedded document index, and answered from the retrieved passages with a
citation back to the source document.

Run the server using:
  askdocs serve        Run the API server`

const askdocsShortDesc string = "Askdocs - Document Q&A"

func NewAskdocsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "askdocs",
		Short: askdocsShortDesc,
		Long:  askdocsLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(initcmder.NewInitCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
