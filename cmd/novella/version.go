package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/novella/internal/api"
	"github.com/jackzampolin/novella/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := api.ParseFormat(outputFormat)
		if err != nil {
			return err
		}
		if format != api.OutputFormatText {
			return api.OutputTo(cmd.OutOrStdout(), format, version.Get())
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "novella %s\n", version.GitRelease)
		fmt.Fprintf(out, "  Go:     %s\n", version.GoInfo)
		fmt.Fprintf(out, "  Commit: %s\n", version.GitCommit)
		fmt.Fprintf(out, "  Date:   %s\n", version.GitCommitDate)
		return nil
	},
}
