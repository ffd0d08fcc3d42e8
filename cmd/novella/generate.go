package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/novella/internal/generate"
	"github.com/jackzampolin/novella/internal/jsonrepair"
	"github.com/jackzampolin/novella/internal/novel"
)

var (
	generateInstruction string
	generateCount       int
	generateNovel       string
	generateContext     int
)

var generateCmd = &cobra.Command{
	Use:   "generate <kind>",
	Short: "Generate structured story records",
	Long: `Ask the model for records of one kind (outline, character, worldview,
inspiration). Malformed responses are recovered when possible and retried
otherwise. With --novel the latest summaries are sent as story context.

Examples:
  novella generate character --instruction "Two rivals for the heir" --count 2
  novella generate outline --novel <novel> --instruction "Plan the next five chapters"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		kind, err := jsonrepair.ParseKind(args[0])
		if err != nil {
			return err
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.closeInto(&err)

		cfg := a.config.Get()
		gen, err := generate.New(generate.Config{
			Client:      a.client(),
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			Attempts:    uint(max(cfg.Generation.Attempts, 1)),
			Delay:       cfg.RetryDelay(),
			Resolver:    a.resolver,
			Recorder:    a.recorder,
			Logger:      a.logger,
		})
		if err != nil {
			return err
		}

		req := generate.Request{
			Kind:        kind,
			Instruction: generateInstruction,
			Count:       generateCount,
			NovelID:     generateNovel,
		}
		if generateNovel != "" {
			n, err := a.store.Novel(generateNovel)
			if err != nil {
				return err
			}
			req.Context = storyContext(n.Chapters, generateContext)
		}

		res, err := gen.Generate(cmd.Context(), req)
		if err != nil {
			return fmt.Errorf("generation failed, try again: %w", err)
		}
		return a.printer.Print(res)
	},
}

// storyContext joins the contents of the last limit summary chapters in
// story order.
func storyContext(chapters []novel.Chapter, limit int) string {
	var parts []string
	for _, ch := range chapters {
		if ch.Subtype.IsSummary() && ch.Content != "" {
			parts = append(parts, fmt.Sprintf("[%s]\n%s", ch.Title, ch.Content))
		}
	}
	if limit > 0 && len(parts) > limit {
		parts = parts[len(parts)-limit:]
	}
	return strings.Join(parts, "\n\n")
}

func init() {
	generateCmd.Flags().StringVarP(&generateInstruction, "instruction", "i", "", "what to generate")
	generateCmd.Flags().IntVarP(&generateCount, "count", "n", 5, "number of records to ask for")
	generateCmd.Flags().StringVar(&generateNovel, "novel", "", "novel whose summaries give context")
	generateCmd.Flags().IntVar(&generateContext, "context-summaries", 4, "summaries to include as context (0 = all)")
	_ = generateCmd.MarkFlagRequired("instruction")
	rootCmd.AddCommand(generateCmd)
}
