package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/novella/internal/api"
	"github.com/jackzampolin/novella/internal/novel"
	"github.com/jackzampolin/novella/internal/summary"
)

var (
	summarizeSmall int
	summarizeBig   int
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize <novel-id> <chapter-id>",
	Short: "Run the summary check for one chapter",
	Long: `Run the small and big summary tiers for a story chapter as if it had
just been written. Tiers fire only when the chapter lands on an interval
boundary within its volume. Existing summaries for the same range are
updated in place.

Examples:
  novella summarize <novel> <chapter>
  novella summarize <novel> <chapter> --small-interval 5 --big-interval 20`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.closeInto(&err)

		novelID, chID := args[0], args[1]
		n, err := a.store.Novel(novelID)
		if err != nil {
			return err
		}
		i := novel.ChapterIndex(n.Chapters, chID)
		if i < 0 {
			return fmt.Errorf("chapter %s not found in novel %s", chID, novelID)
		}

		cfg := a.config.Get().SummaryConfig()
		if cmd.Flags().Changed("small-interval") {
			cfg.SmallInterval = summarizeSmall
		}
		if cmd.Flags().Changed("big-interval") {
			cfg.BigInterval = summarizeBig
		}

		before := summaryKeys(n.Chapters)
		result := a.orchestrator().CheckAndGenerate(cmd.Context(), summary.Request{
			ChapterID:     chID,
			LatestContent: novel.StableContent(n.Chapters[i]),
			NovelID:       novelID,
			Chapters:      n.Chapters,
			Publish:       func(u summary.Updater) { a.store.Publish(u) },
			Config:        cfg,
		})
		if result == nil {
			return fmt.Errorf("chapter %s is not a story chapter", chID)
		}

		var touched []novel.Chapter
		for _, ch := range result.Chapters {
			if !ch.Subtype.IsSummary() {
				continue
			}
			if prev, ok := before[ch.ID]; !ok || prev != ch.Content {
				touched = append(touched, ch)
			}
		}
		if len(touched) == 0 {
			a.printer.Message("no summary due at story index %d", novel.StoryIndex(result.Chapters, chID))
		}
		if a.printer.Format() == api.OutputFormatText {
			for _, ch := range touched {
				a.printer.Message("%s\n\n%s\n", ch.Title, ch.Content)
			}
			return nil
		}
		return a.printer.Print(touched)
	},
}

func summaryKeys(chapters []novel.Chapter) map[string]string {
	out := make(map[string]string)
	for _, ch := range chapters {
		if ch.Subtype.IsSummary() {
			out[ch.ID] = ch.Content
		}
	}
	return out
}

func init() {
	summarizeCmd.Flags().IntVar(&summarizeSmall, "small-interval", 0, "override summary.small_interval (negative disables)")
	summarizeCmd.Flags().IntVar(&summarizeBig, "big-interval", 0, "override summary.big_interval (negative disables)")
	rootCmd.AddCommand(summarizeCmd)
}
