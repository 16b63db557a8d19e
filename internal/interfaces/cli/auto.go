package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewAutoCmd builds the auto command: the two-phase candidate search.
func NewAutoCmd() *cobra.Command {
	var (
		flags  specFlags
		target float64
	)

	cmd := &cobra.Command{
		Use:   "auto",
		Short: "Search for ablation patterns hitting a target power density",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			spec, err := flags.spec()
			if err != nil {
				return err
			}

			candidates, err := cliCtx.App.Search.FindTopDesigns(cmd.Context(), spec, target)
			if err != nil {
				return err
			}
			if len(candidates) == 0 {
				return fmt.Errorf("no candidates found in the configured ranges")
			}
			return printCandidates(cmd, cliCtx, candidates)
		},
	}

	flags.register(cmd)
	cmd.Flags().Float64Var(&target, "target", 0, "target power density, W/m² (required)")
	cmd.MarkFlagRequired("target")

	return cmd
}
