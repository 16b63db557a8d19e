package cli

import (
	"github.com/spf13/cobra"
)

// NewRecommendCmd builds the recommend command: is the target reachable,
// and if not, what to change.
func NewRecommendCmd() *cobra.Command {
	var (
		flags  specFlags
		target float64
	)

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Explain whether a target power density is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			spec, err := flags.spec()
			if err != nil {
				return err
			}

			rec, err := cliCtx.App.Search.Recommend(cmd.Context(), spec, target)
			if err != nil {
				return err
			}
			return printRecommendation(cmd, cliCtx, rec)
		},
	}

	flags.register(cmd)
	cmd.Flags().Float64Var(&target, "target", 0, "target power density, W/m² (required)")
	cmd.MarkFlagRequired("target")

	return cmd
}
