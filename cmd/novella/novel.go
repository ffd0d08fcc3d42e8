package main

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jackzampolin/novella/internal/novel"
)

var novelVolumes []string

var novelCmd = &cobra.Command{
	Use:   "novel",
	Short: "Create and inspect novels",
}

var novelCreateCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a novel",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.closeInto(&err)

		n := novel.Novel{Title: args[0], Chapters: []novel.Chapter{}}
		for _, title := range novelVolumes {
			n.Volumes = append(n.Volumes, novel.Volume{ID: uuid.New().String(), Title: title})
		}
		n = a.store.AddNovel(n)
		return a.printer.Print(n)
	},
}

type novelSummary struct {
	ID        string `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	Chapters  int    `json:"chapters" yaml:"chapters"`
	Summaries int    `json:"summaries" yaml:"summaries"`
	Volumes   int    `json:"volumes" yaml:"volumes"`
}

var novelListCmd = &cobra.Command{
	Use:   "list",
	Short: "List novels",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.closeInto(&err)

		out := []novelSummary{}
		for _, n := range a.store.Novels() {
			story := len(novel.StoryChapters(n.Chapters))
			out = append(out, novelSummary{
				ID:        n.ID,
				Title:     n.Title,
				Chapters:  story,
				Summaries: len(n.Chapters) - story,
				Volumes:   len(n.Volumes),
			})
		}
		return a.printer.Print(out)
	},
}

var novelShowCmd = &cobra.Command{
	Use:   "show <novel-id>",
	Short: "Print a novel with all chapters",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.closeInto(&err)

		n, err := a.store.Novel(args[0])
		if err != nil {
			return err
		}
		return a.printer.Print(n)
	},
}

func init() {
	novelCreateCmd.Flags().StringSliceVar(&novelVolumes, "volume", nil, "volume title (repeatable)")

	novelCmd.AddCommand(novelCreateCmd, novelListCmd, novelShowCmd)
	rootCmd.AddCommand(novelCmd)
}
