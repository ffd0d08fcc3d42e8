package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/novella/internal/novel"
	"github.com/jackzampolin/novella/internal/summary"
)

var (
	chapterID      string
	chapterTitle   string
	chapterFile    string
	chapterVolume  string
	chapterNoWatch bool
)

var writeChapterCmd = &cobra.Command{
	Use:   "write-chapter <novel-id>",
	Short: "Write a story chapter and update rolling summaries",
	Long: `Write a story chapter from --file (or stdin) into a novel.

A new chapter is appended; an existing --id is rewritten and keeps its
version history. The write then runs the summary check for the chapter and
waits for it before saving.

Examples:
  novella write-chapter <novel> --title "The Ford" --file ch12.txt
  cat ch12.txt | novella write-chapter <novel> --id <chapter> --title "The Ford"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.closeInto(&err)

		content, err := readInput(cmd, chapterFile)
		if err != nil {
			return err
		}

		n, err := a.store.Novel(args[0])
		if err != nil {
			return err
		}
		ch := novel.Chapter{ID: chapterID, Title: chapterTitle, Content: content, Subtype: novel.SubtypeStory}
		if i := novel.ChapterIndex(n.Chapters, chapterID); chapterID != "" && i >= 0 {
			existing := n.Chapters[i]
			if !novel.IsStory(existing) {
				return fmt.Errorf("chapter %s is a summary chapter", chapterID)
			}
			ch.VolumeID = existing.VolumeID
			if ch.Title == "" {
				ch.Title = existing.Title
			}
		}
		if chapterVolume != "" {
			ch.VolumeID = novel.StringPtr(resolveVolume(n, chapterVolume))
		}

		trigger := summary.NewTrigger(cmd.Context(), a.orchestrator(), a.store, func() summary.Config {
			return a.config.Get().SummaryConfig()
		}, a.logger)
		defer trigger.Close()

		if !chapterNoWatch {
			a.store.OnChapterWrite(func(ctx context.Context, nid, cid, text string) {
				trigger.OnChapterWrite(ctx, nid, cid, text)
			})
		}

		written, err := a.store.WriteChapter(cmd.Context(), args[0], ch)
		if err != nil {
			return err
		}
		trigger.Wait()

		a.printer.Message("wrote chapter %s (story index %d)", written.ID, storyIndex(a, args[0], written.ID))
		return a.printer.Print(written)
	},
}

var deleteChapterCmd = &cobra.Command{
	Use:   "delete-chapter <novel-id> <chapter-id>",
	Short: "Delete a chapter and the summaries that end at it",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.closeInto(&err)

		removed, err := a.store.DeleteChapter(args[0], args[1])
		if err != nil {
			return err
		}
		return a.printer.Print(map[string]any{"removed": removed})
	},
}

// resolveVolume accepts a volume ID or title.
func resolveVolume(n novel.Novel, ref string) string {
	for _, v := range n.Volumes {
		if v.ID == ref || v.Title == ref {
			return v.ID
		}
	}
	return ref
}

func storyIndex(a *app, novelID, chapterID string) int {
	n, err := a.store.Novel(novelID)
	if err != nil {
		return 0
	}
	return novel.StoryIndex(n.Chapters, chapterID)
}

// readInput reads a file, or stdin when path is "" or "-".
func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

func init() {
	writeChapterCmd.Flags().StringVar(&chapterID, "id", "", "chapter ID to rewrite (default: new chapter)")
	writeChapterCmd.Flags().StringVar(&chapterTitle, "title", "", "chapter title")
	writeChapterCmd.Flags().StringVarP(&chapterFile, "file", "f", "", "chapter text file (default: stdin)")
	writeChapterCmd.Flags().StringVar(&chapterVolume, "volume", "", "volume ID or title")
	writeChapterCmd.Flags().BoolVar(&chapterNoWatch, "no-summaries", false, "skip the summary check")

	rootCmd.AddCommand(writeChapterCmd, deleteChapterCmd)
}
