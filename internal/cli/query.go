// internal/cli/query.go
package ragdeck

import (
	"context"
	"fmt"
	"strings"

	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"

	"ragdeck/internal/gateway"
)

var (
	queryK      int
	queryNProbe int
)

// queryCmd asks the gateway one question and prints the answer with its
// citations and snippets.
var queryCmd = &cobra.Command{
	Use:   "query <question>",
	Short: "Ask a question over the ingested documents",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		client := gateway.New(cfg.GatewayBase(), cfg.RequestTimeout())

		req := gateway.QueryRequest{
			Question: strings.Join(args, " "),
			K:        queryK,
		}
		if req.K == 0 {
			req.K = cfg.QueryK()
		}
		if queryNProbe > 0 {
			req.Retrieval = &gateway.RetrievalParams{NProbe: queryNProbe}
		}

		result, err := client.Query(context.Background(), req)
		if err != nil {
			return fmt.Errorf("%s", errorText(err.Error()))
		}

		fmt.Printf("%s %s\n", successText("Answer:"), result.Answer)
		if len(result.Citations) == 0 {
			fmt.Println("Citations: none")
		} else {
			fmt.Println("Citations:")
			for _, c := range result.Citations {
				fmt.Printf("  %s (score %.3f)\n", c.Source, c.Score)
			}
		}
		if cfg.Debug {
			pp.Println(result)
		}
		return nil
	},
}

func init() {
	queryCmd.Flags().IntVar(&queryK, "k", 0, "number of results to retrieve (0 = default)")
	queryCmd.Flags().IntVar(&queryNProbe, "n-probe", 0, "ivf probes per query (0 = gateway default)")
	rootCmd.AddCommand(queryCmd)
}
