// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the vertexmd CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the vertexmd CLI.
var rootCmd = &cobra.Command{
	Use:   "vertexmd",
	Short: "Convert Vertex AI Studio conversation exports to Markdown",
	Long: `vertexmd converts Vertex AI Studio conversation exports (JSON files with
a top-level "messages" list) into readable Markdown documents, one section
per message.

Use convert for single files or directory batches, and catalog to build a
searchable SQLite index of converted conversations.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./vertexmd.yaml or ~/.config/vertexmd/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("vertexmd")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "vertexmd"))
		}
	}

	viper.SetEnvPrefix("VERTEXMD")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
