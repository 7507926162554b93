// internal/cli/show_config.go
package ragdeck

import (
	"fmt"

	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"
)

// showConfigCmd prints the effective configuration after file and flag
// merging, for debugging configuration layering.
var showConfigCmd = &cobra.Command{
	Use:   "show-config",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		fmt.Printf("gateway: %s\n", cfg.GatewayBase())
		fmt.Printf("timeout: %s\n", cfg.RequestTimeout())
		fmt.Printf("logFile: %s\n", cfg.LogFilePath())
		fmt.Printf("debug:   %v\n", cfg.Debug)
		if cfg.Debug {
			pp.Println(cfg)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showConfigCmd)
}
