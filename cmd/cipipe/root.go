package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "cipipe",
		Short:         "Cipipe runs a staged build pipeline and reports the outcome",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	persistent := cmd.PersistentFlags()
	persistent.String("format", "", "output format (pretty|markdown|json)")
	persistent.String("summary", "", "file to append the rendered report to")
	persistent.String("artifact", "", "path of the packaged artifact to validate")
	persistent.StringArray("require", nil, "artifact entry that must be present (repeatable)")
	persistent.Int64("min-size", 0, "minimum uncompressed artifact size in bytes")
	persistent.Bool("dry-run", false, "record stages as skipped without executing them")
	persistent.BoolP("verbose", "v", false, "stream command output in real time")

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newValidateCmd())

	return cmd
}
