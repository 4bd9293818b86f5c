// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/meshintel/vertexmd/internal/convert"
)

var convertCmd = &cobra.Command{
	Use:   "convert <input.json | --batch <dir>>",
	Short: "Convert a conversation export to Markdown",
	Long: `Convert reads a Vertex AI Studio export JSON file and writes a Markdown
document with one section per message. Without --output the Markdown file is
written next to the input with a .md extension.

With --batch the argument is a directory: every .json file in it is
converted, existing outputs are skipped unless --force, and a manifest.yaml
describing the run is written next to the outputs.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	batch, _ := cmd.Flags().GetBool("batch")

	if batch {
		return runConvertBatch(cmd, args[0])
	}

	inputPath := args[0]
	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		outputPath = convert.DerivedOutputPath(inputPath)
	}

	result := convert.File(inputPath, outputPath, os.Stdout)
	if result.Err != nil {
		return fmt.Errorf("conversion failed")
	}
	return nil
}

func runConvertBatch(cmd *cobra.Command, dir string) error {
	opts := convert.BatchOptions{
		OutputDir: flagOrConfig(cmd, "output-dir", "convert.output_dir"),
		Force:     boolFlagOrConfig(cmd, "force", "convert.force"),
	}

	summary, err := convert.Batch(dir, opts, os.Stdout)
	if err != nil {
		return err
	}
	if summary.HasFailures() {
		return fmt.Errorf("%d file(s) failed conversion", summary.Failed)
	}
	return nil
}

// flagOrConfig returns the flag value when set, falling back to the viper
// config key.
func flagOrConfig(cmd *cobra.Command, flag, key string) string {
	if cmd.Flags().Changed(flag) {
		v, _ := cmd.Flags().GetString(flag)
		return v
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	v, _ := cmd.Flags().GetString(flag)
	return v
}

func boolFlagOrConfig(cmd *cobra.Command, flag, key string) bool {
	if cmd.Flags().Changed(flag) {
		v, _ := cmd.Flags().GetBool(flag)
		return v
	}
	if viper.IsSet(key) {
		return viper.GetBool(key)
	}
	v, _ := cmd.Flags().GetBool(flag)
	return v
}

func init() {
	convertCmd.Flags().StringP("output", "o", "", "output Markdown path (default: input path with .md extension)")
	convertCmd.Flags().Bool("batch", false, "treat the argument as a directory and convert every .json in it")
	convertCmd.Flags().String("output-dir", "", "directory for batch outputs (default: alongside the inputs)")
	convertCmd.Flags().Bool("force", false, "overwrite existing Markdown outputs in batch mode")

	rootCmd.AddCommand(convertCmd)
}
