// internal/cli/wizard.go
package ragdeck

import (
	"github.com/spf13/cobra"

	"ragdeck/internal/wizard"
)

var startWizard = wizard.Start

// wizardCmd launches the interactive four-step gateway wizard.
var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Start the interactive setup/ingest/query wizard",
	Long:  `The 'wizard' command starts the interactive terminal workflow that configures the gateway, ingests documents, and runs queries against them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return startWizard(GetConfig())
	},
}

func init() {
	rootCmd.AddCommand(wizardCmd)
}
