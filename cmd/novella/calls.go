package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/novella/internal/llmcall"
)

var (
	callsNovel  string
	callsPrompt string
	callsFailed bool
	callsLimit  int
	callsCounts bool
)

var callsCmd = &cobra.Command{
	Use:   "calls",
	Short: "List recorded model calls",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.closeInto(&err)

		s := llmcall.NewStore(a.home.CallLogPath())
		if callsCounts {
			counts, err := s.CountByPromptKey(callsNovel)
			if err != nil {
				return err
			}
			return a.printer.Print(counts)
		}

		filter := llmcall.QueryFilter{
			NovelID:   callsNovel,
			PromptKey: callsPrompt,
			Limit:     callsLimit,
		}
		if callsFailed {
			ok := false
			filter.Success = &ok
		}
		calls, err := s.List(filter)
		if err != nil {
			return err
		}
		if calls == nil {
			calls = []llmcall.Call{}
		}
		return a.printer.Print(calls)
	},
}

func init() {
	callsCmd.Flags().StringVar(&callsNovel, "novel", "", "only calls for this novel")
	callsCmd.Flags().StringVar(&callsPrompt, "prompt", "", "only calls with this prompt key (e.g. summary.small)")
	callsCmd.Flags().BoolVar(&callsFailed, "failed", false, "only failed calls")
	callsCmd.Flags().IntVar(&callsLimit, "limit", 50, "maximum calls to list (0 = all)")
	callsCmd.Flags().BoolVar(&callsCounts, "counts", false, "print call counts per prompt key")
	rootCmd.AddCommand(callsCmd)
}
