package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewSolveCmd builds the solve command: one fixed pattern evaluated
// through the field solver (or the estimator with --estimate).
func NewSolveCmd() *cobra.Command {
	var (
		flags    specFlags
		target   float64
		meshStep float64
		estimate bool
	)

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Evaluate one ablation pattern against a target power density",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			spec, err := flags.spec()
			if err != nil {
				return err
			}

			facade := cliCtx.App.Facade
			if estimate {
				res := facade.CalculateManual(spec, target)
				return printCalcResult(cmd, cliCtx, res)
			}

			res, solve := facade.CalculateExact(cmd.Context(), spec, target, meshStep)
			if res == nil {
				return fmt.Errorf("solve failed: %s", solve.Reason)
			}
			return printCalcResult(cmd, cliCtx, res)
		},
	}

	flags.register(cmd)
	flags.registerPattern(cmd)
	cmd.Flags().Float64Var(&target, "target", 0, "target power density, W/m² (required)")
	cmd.Flags().Float64Var(&meshStep, "mesh", 0, "solver mesh step, mm (0 = configured default)")
	cmd.Flags().BoolVar(&estimate, "estimate", false, "use the analytic estimator instead of the field solver")
	cmd.MarkFlagRequired("target")

	return cmd
}
