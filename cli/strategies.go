package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/botirk38/chunkkit/chunker"
)

var strategyFlags = map[chunker.ChunkStrategy]string{
	chunker.DocumentBased:    fmt.Sprintf("(fixed budget of %d runes)", chunker.DocumentBudget),
	chunker.FixedSize:        "--chunk-size",
	chunker.Recursive:        "--max-chunk-size --min-chunk-size",
	chunker.FixedSizeOverlap: "--chunk-size --overlap",
	chunker.SentenceBased:    "--max-sentences",
	chunker.TokenBased:       "--max-tokens --vocabulary",
}

func newStrategiesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "strategies",
		Short: "List the chunking strategies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "STRATEGY\tUNIT\tPARAMETERS")
			for _, s := range chunker.Strategies {
				fmt.Fprintf(w, "%s\t%s\t%s\n", s, s.Unit(), strategyFlags[s])
			}
			return w.Flush()
		},
	}
}
