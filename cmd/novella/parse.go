package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/novella/internal/api"
	"github.com/jackzampolin/novella/internal/jsonrepair"
)

var parseKind string

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Recover a JSON array from raw model output",
	Long: `Recover a JSON array from model output that may be fenced, truncated,
wrapped in prose or full of raw control characters. Reads stdin when no file
is given. With --kind the records are normalized and validated.

Examples:
  novella parse response.txt
  pbpaste | novella parse --kind character -o json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := api.ParseFormat(outputFormat)
		if err != nil {
			return err
		}
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		text, err := readInput(cmd, path)
		if err != nil {
			return err
		}

		parsed, err := jsonrepair.ParseArray(text)
		if err != nil {
			return err
		}
		if parseKind == "" {
			return api.OutputTo(cmd.OutOrStdout(), format, parsed)
		}

		kind, err := jsonrepair.ParseKind(parseKind)
		if err != nil {
			return err
		}
		records := jsonrepair.Normalize(kind, parsed)
		if err := jsonrepair.Validate(kind, records); err != nil {
			return err
		}
		return api.OutputTo(cmd.OutOrStdout(), format, records)
	},
}

func init() {
	parseCmd.Flags().StringVar(&parseKind, "kind", "", "normalize as outline, character, worldview or inspiration")
	rootCmd.AddCommand(parseCmd)
}
