package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/greenmobile/heatglass/internal/application/design"
	"github.com/greenmobile/heatglass/internal/application/search"
	"github.com/greenmobile/heatglass/internal/domain/panel"
)

func printCalcResult(cmd *cobra.Command, cliCtx *CLIContext, res *design.CalcResult) error {
	if cliCtx.OutputFormat == "json" {
		return printJSON(cmd, res)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Target resistance:   %.2f Ohm\n", res.TargetResistanceOhm)
	fmt.Fprintf(out, "Raw resistance:      %.2f Ohm\n", res.RawResistanceOhm)
	fmt.Fprintf(out, "Multiplier:          %.3f\n", res.Multiplier)
	fmt.Fprintf(out, "Achieved resistance: %.2f Ohm\n", res.AchievedResistanceOhm)
	fmt.Fprintf(out, "Achieved power:      %.1f W/m²\n", res.AchievedPowerWm2)
	fmt.Fprintf(out, "Deviation:           %+.2f %%\n", res.DeviationPercent)
	if res.Exact && !res.Converged {
		fmt.Fprintln(out, "Warning: the field solve did not fully converge")
	}
	return nil
}

func printCandidates(cmd *cobra.Command, cliCtx *CLIContext, candidates []panel.CandidateDesign) error {
	if cliCtx.OutputFormat == "json" {
		return printJSON(cmd, candidates)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tSIDE mm\tGAP mm\tMULT\tR Ohm\tPOWER W/m²\tDEV %\tOK")
	for i, c := range candidates {
		ok := " "
		if c.Achievable {
			ok = "yes"
		}
		fmt.Fprintf(w, "%d\t%.1f\t%.1f\t%.3f\t%.2f\t%.1f\t%+.2f\t%s\n",
			i+1, c.IslandSideMm, c.GapMm, c.Multiplier, c.ResistanceOhm, c.PowerDensity, c.DeviationPercent, ok)
	}
	return w.Flush()
}

func printRecommendation(cmd *cobra.Command, cliCtx *CLIContext, rec *search.Recommendation) error {
	if cliCtx.OutputFormat == "json" {
		return printJSON(cmd, rec)
	}
	fmt.Fprintln(cmd.OutOrStdout(), rec.Message)
	return nil
}
