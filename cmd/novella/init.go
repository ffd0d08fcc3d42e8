package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/novella/internal/config"
	"github.com/jackzampolin/novella/internal/home"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the home directory and a default config file",
	Long: `Create ~/.novella (or --home) with a novels directory and a default
config.yaml. An existing config is kept unless --force is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}

		path := h.ConfigPath()
		if cfgFile != "" {
			path = cfgFile
		}
		if h.ConfigExists() && cfgFile == "" && !initForce {
			fmt.Fprintf(cmd.OutOrStdout(), "config already exists at %s\n", path)
			return nil
		}
		if err := config.WriteDefault(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote default config to %s\n", path)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}
