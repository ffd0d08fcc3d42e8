package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/novella/internal/api"
	"github.com/jackzampolin/novella/internal/config"
	"github.com/jackzampolin/novella/internal/home"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, format, err := loadConfig()
		if err != nil {
			return err
		}
		return api.OutputTo(cmd.OutOrStdout(), format, map[string]any{
			"file":   mgr.ConfigFile(),
			"config": mgr.Get(),
		})
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one configuration value (e.g. summary.small_interval)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, format, err := loadConfig()
		if err != nil {
			return err
		}
		v, err := mgr.Value(args[0])
		if err != nil {
			return err
		}
		return api.OutputTo(cmd.OutOrStdout(), format, config.Entry{Key: args[0], Value: v})
	},
}

var configDefaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "List every configuration key with its default",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := api.ParseFormat(outputFormat)
		if err != nil {
			return err
		}
		return api.OutputTo(cmd.OutOrStdout(), format, config.DefaultEntries())
	},
}

var configPromptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "List the embedded default prompts",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.closeInto(&err)
		return a.printer.Print(a.resolver.AllEmbedded())
	},
}

func loadConfig() (*config.Manager, api.OutputFormat, error) {
	format, err := api.ParseFormat(outputFormat)
	if err != nil {
		return nil, "", err
	}
	h, err := home.New(homeDir)
	if err != nil {
		return nil, "", err
	}
	mgr, err := config.NewManager(cfgFile, h.Path())
	if err != nil {
		return nil, "", err
	}
	return mgr, format, nil
}

func init() {
	configCmd.AddCommand(configShowCmd, configGetCmd, configDefaultsCmd, configPromptsCmd)
	rootCmd.AddCommand(configCmd)
}
