// internal/cli/ingest.go
package ragdeck

import (
	"context"
	"fmt"

	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"

	"ragdeck/internal/collector"
	"ragdeck/internal/gateway"
)

var (
	ingestText  string
	ingestLabel string
)

// ingestCmd submits files and/or pasted text to the gateway.
var ingestCmd = &cobra.Command{
	Use:   "ingest [files...]",
	Short: "Ingest documents into the gateway index",
	Long:  `The 'ingest' command reads the given files (plus optional --text) and submits them as one document batch. Failed file reads abort the batch; nothing partial is submitted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		label := ingestLabel
		if label == "" {
			label = cfg.ManualLabel
		}
		documents, err := collector.Collect(args, ingestText, label)
		if err != nil {
			return err
		}
		if len(documents) == 0 {
			return fmt.Errorf("nothing to ingest: pass file paths or --text")
		}

		client := gateway.New(cfg.GatewayBase(), cfg.RequestTimeout())
		result, err := client.Ingest(context.Background(), documents)
		if err != nil {
			return fmt.Errorf("%s", errorText(err.Error()))
		}

		fmt.Printf("%s %d chunk(s) from %d document(s)\n", successText("Ingested"), result.Chunks, len(result.Documents))
		for _, doc := range result.Documents {
			fmt.Printf("  %s: %d chunk(s)\n", doc.Name, doc.Chunks)
		}
		if len(result.Duplicates) > 0 {
			fmt.Printf("  %d duplicate group(s) skipped\n", len(result.Duplicates))
		}
		if cfg.Debug {
			pp.Println(result)
		}
		return nil
	},
}

func init() {
	ingestCmd.Flags().StringVar(&ingestText, "text", "", "manual text to ingest as one extra document")
	ingestCmd.Flags().StringVar(&ingestLabel, "label", "", "label for the manual text document")
	rootCmd.AddCommand(ingestCmd)
}
