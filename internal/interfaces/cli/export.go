package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// NewExportCmd builds the export command: production drawings in SVG or
// DXF for one fixed pattern.
func NewExportCmd() *cobra.Command {
	var (
		flags   specFlags
		format  string
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the panel drawing as SVG or DXF",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			spec, err := flags.spec()
			if err != nil {
				return err
			}

			var data []byte
			switch strings.ToLower(format) {
			case "svg":
				data, err = cliCtx.App.SVG.Generate(spec)
			case "dxf":
				data, err = cliCtx.App.DXF.Generate(spec)
			default:
				return fmt.Errorf("unsupported format %q: use svg or dxf", format)
			}
			if err != nil {
				return err
			}

			path := outPath
			if path == "" {
				path = "panel." + strings.ToLower(format)
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", path, len(data))
			return nil
		},
	}

	flags.register(cmd)
	flags.registerPattern(cmd)
	cmd.Flags().StringVar(&format, "format", "svg", "drawing format (svg, dxf)")
	cmd.Flags().StringVar(&outPath, "out", "", "output file path (default: panel.<format>)")

	return cmd
}
