package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/taskmaker/internal/model"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective configuration to the config file",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "config:               %s\n", configPath)
	fmt.Fprintf(out, "storage.dir:          %s\n", cfg.Storage.Dir)
	fmt.Fprintf(out, "storage.timeout:      %s\n", cfg.Storage.Timeout)
	fmt.Fprintf(out, "defaults.text_colour: %s\n", cfg.Defaults.TextColour)
	fmt.Fprintf(out, "defaults.back_colour: %s\n", cfg.Defaults.BackColour)
	fmt.Fprintf(out, "log.file:             %s\n", cfg.LogPath())
	fmt.Fprintf(out, "log.level:            %s\n", cfg.Log.Level)
	return nil
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := model.ValidateHex("defaults.text_colour", cfg.Defaults.TextColour); err != nil {
		return err
	}
	if err := model.ValidateHex("defaults.back_colour", cfg.Defaults.BackColour); err != nil {
		return err
	}
	if err := model.SaveConfig(configPath, cfg); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", configPath)
	return nil
}
