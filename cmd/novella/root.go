package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/novella/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "novella",
	Short: "Long-form continuity engine for chapter-based novel writing",
	Long: `Novella keeps a long serialized novel writable with a bounded model context.

After every chapter write it maintains rolling summaries:
  - small summaries every few story chapters of a volume
  - arc summaries built from the small summaries they cover

It also turns unreliable model output into structured records
(outline items, characters, worldview entries, inspirations).`,
	Version:       version.GitRelease,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.novella/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "novella home directory (default: ~/.novella)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml, json or text",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false, "enable debug logging",
	)

	rootCmd.AddCommand(versionCmd)
}
