// internal/cli/setup.go
package ragdeck

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"

	"ragdeck/internal/gateway"
)

var successText = color.New(color.FgGreen).SprintFunc()
var errorText = color.New(color.FgRed).SprintFunc()

var (
	setupIndexKind  string
	setupDimension  int
	setupChunkSize  int
	setupOverlap    int
	setupEf         int
	setupNLists     int
	setupIterations int
	setupMaxTokens  int
)

// setupCmd configures the gateway pipeline without entering the wizard.
var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure the gateway pipeline",
	Long:  `The 'setup' command configures the remote gateway's index, chunking, and generation parameters, resetting any previously ingested state.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		client := gateway.New(cfg.GatewayBase(), cfg.RequestTimeout())

		req := gateway.SetupRequest{
			Index:     gateway.IndexKind(setupIndexKind),
			Dimension: setupDimension,
			ChunkSize: setupChunkSize,
		}
		if cmd.Flags().Changed("overlap") {
			req.Overlap = &setupOverlap
		}
		if setupMaxTokens > 0 {
			req.GeneratorMaxTokens = &setupMaxTokens
		}
		switch {
		case cmd.Flags().Changed("ef"):
			req.IndexParams = &gateway.IndexParams{HNSW: &gateway.HNSWParams{Ef: setupEf}}
		case cmd.Flags().Changed("n-lists") || cmd.Flags().Changed("iterations"):
			req.IndexParams = &gateway.IndexParams{IVF: &gateway.IVFParams{NLists: setupNLists, Iterations: setupIterations}}
		}

		result, err := client.Setup(context.Background(), req)
		if err != nil {
			return fmt.Errorf("%s", errorText(err.Error()))
		}

		fmt.Printf("%s gateway at %s: %s index, dimension %d, chunk size %d, overlap %d\n",
			successText("Configured"), client.Base(), result.Index, result.Dimension, result.ChunkSize, result.Overlap)
		if cfg.Debug {
			pp.Println(result)
		}
		return nil
	},
}

func init() {
	setupCmd.Flags().StringVar(&setupIndexKind, "index", string(gateway.IndexHNSW), "index kind (hnsw or ivf)")
	setupCmd.Flags().IntVar(&setupDimension, "dimension", gateway.DefaultDimension, "embedding dimension")
	setupCmd.Flags().IntVar(&setupChunkSize, "chunk-size", gateway.DefaultChunkSize, "chunk size in characters")
	setupCmd.Flags().IntVar(&setupOverlap, "overlap", gateway.DefaultOverlap, "chunk overlap in characters")
	setupCmd.Flags().IntVar(&setupEf, "ef", gateway.DefaultHNSWEf, "hnsw ef search parameter")
	setupCmd.Flags().IntVar(&setupNLists, "n-lists", gateway.DefaultIVFNLists, "ivf list count")
	setupCmd.Flags().IntVar(&setupIterations, "iterations", gateway.DefaultIVFIters, "ivf k-means iterations")
	setupCmd.Flags().IntVar(&setupMaxTokens, "max-tokens", 0, "generator max tokens (0 = gateway default)")
	rootCmd.AddCommand(setupCmd)
}
