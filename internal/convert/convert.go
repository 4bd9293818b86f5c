// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns conversation export JSON files into Markdown
// documents, one at a time or as a directory batch.
package convert

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/meshintel/vertexmd/internal/export"
	"github.com/meshintel/vertexmd/internal/render"
	"github.com/meshintel/vertexmd/pkg/types"
)

// Result holds the outcome of converting one export file.
type Result struct {
	Status   types.ConversionStatus
	Messages int
	Err      error
}

// DerivedOutputPath returns the default output path for an input: the input
// path with its extension replaced by ".md".
func DerivedOutputPath(inputPath string) string {
	return strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".md"
}

// File converts one export file to Markdown at outputPath, overwriting any
// existing file there. Status lines go to w.
//
// The document header is written before parsing, so a parse or shape failure
// leaves an output file holding the header and an error section. A missing
// input aborts before the output file is created. A malformed message stops
// the conversion after the messages already rendered.
func File(inputPath, outputPath string, w io.Writer) Result {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintf(w, "Error: The input file '%s' was not found.\n", inputPath)
		} else {
			fmt.Fprintf(w, "Error: could not read '%s': %v\n", inputPath, err)
		}
		return Result{Status: types.ConversionFailed, Err: fmt.Errorf("reading %s: %w", inputPath, err)}
	}

	out, err := os.Create(outputPath)
	if err != nil {
		fmt.Fprintf(w, "Error: could not create '%s': %v\n", outputPath, err)
		return Result{Status: types.ConversionFailed, Err: fmt.Errorf("creating %s: %w", outputPath, err)}
	}
	defer out.Close()

	if err := render.Header(out); err != nil {
		return writeFailure(w, outputPath, err)
	}

	doc, err := export.Parse(data)
	switch {
	case errors.Is(err, export.ErrParse):
		render.ErrorSection(out, "Could not parse the input file. Please ensure it is a valid JSON file.")
		fmt.Fprintf(w, "Error: Could not parse '%s'. It may not be a valid JSON file.\n", inputPath)
		return Result{Status: types.ConversionFailed, Err: err}
	case errors.Is(err, export.ErrInvalidShape):
		render.ErrorSection(out, "Input file does not contain a valid 'messages' list.")
		fmt.Fprintf(w, "Error: Input file '%s' does not contain a 'messages' list.\n", inputPath)
		return Result{Status: types.ConversionFailed, Err: err}
	case err != nil:
		fmt.Fprintf(w, "Error: unexpected failure parsing '%s': %v\n", inputPath, err)
		return Result{Status: types.ConversionFailed, Err: err}
	}

	if doc.Len() == 0 {
		if err := render.NoMessages(out); err != nil {
			return writeFailure(w, outputPath, err)
		}
		fmt.Fprintf(w, "Successfully created '%s', but no messages were found.\n", outputPath)
		return Result{Status: types.ConversionDone}
	}

	for i := 0; i < doc.Len(); i++ {
		msg, err := doc.Message(i)
		if err != nil {
			fmt.Fprintf(w, "Error: %v in '%s'\n", err, inputPath)
			return Result{Status: types.ConversionFailed, Messages: i, Err: err}
		}
		if err := render.Message(out, msg); err != nil {
			return writeFailure(w, outputPath, err)
		}
	}

	fmt.Fprintf(w, "Successfully converted %d messages from '%s' to '%s'\n",
		doc.Len(), inputPath, outputPath)
	return Result{Status: types.ConversionDone, Messages: doc.Len()}
}

func writeFailure(w io.Writer, outputPath string, err error) Result {
	fmt.Fprintf(w, "Error: could not write '%s': %v\n", outputPath, err)
	return Result{Status: types.ConversionFailed, Err: fmt.Errorf("writing %s: %w", outputPath, err)}
}

// BatchSummary holds counts from a batch conversion run.
type BatchSummary struct {
	Converted int
	Skipped   int
	Failed    int
}

// Total returns the number of export files processed.
func (s BatchSummary) Total() int {
	return s.Converted + s.Skipped + s.Failed
}

// HasFailures reports whether any file failed conversion.
func (s BatchSummary) HasFailures() bool {
	return s.Failed > 0
}

// BatchOptions control a batch conversion run.
type BatchOptions struct {
	// OutputDir receives the Markdown files; empty means alongside the
	// inputs.
	OutputDir string

	// Force overwrites existing Markdown outputs instead of skipping them.
	Force bool
}

// Batch converts every .json file in dir, printing per-file status to w and
// returning a summary. Existing outputs are skipped unless opts.Force is
// set. A manifest.yaml describing the run is written next to the outputs.
func Batch(dir string, opts BatchOptions, w io.Writer) (BatchSummary, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return BatchSummary{}, fmt.Errorf("reading export directory %s: %w", dir, err)
	}

	if opts.OutputDir != "" {
		if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
			return BatchSummary{}, fmt.Errorf("creating output directory: %w", err)
		}
	}

	var summary BatchSummary
	manifest := NewManifest(dir)

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		inputPath := filepath.Join(dir, entry.Name())
		outputPath := DerivedOutputPath(inputPath)
		if opts.OutputDir != "" {
			outputPath = filepath.Join(opts.OutputDir, filepath.Base(outputPath))
		}

		if !opts.Force {
			if _, err := os.Stat(outputPath); err == nil {
				fmt.Fprintf(w, "skipped: %s (already exists)\n", entry.Name())
				summary.Skipped++
				manifest.Add(inputPath, outputPath, Result{Status: types.ConversionSkipped})
				continue
			}
		}

		result := File(inputPath, outputPath, w)
		switch result.Status {
		case types.ConversionDone:
			summary.Converted++
		case types.ConversionFailed:
			summary.Failed++
		}
		manifest.Add(inputPath, outputPath, result)
	}

	fmt.Fprintf(w, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d)\n",
		summary.Converted, summary.Skipped, summary.Failed, summary.Total())

	manifestDir := dir
	if opts.OutputDir != "" {
		manifestDir = opts.OutputDir
	}
	if err := manifest.Write(manifestDir); err != nil {
		fmt.Fprintf(w, "warning: manifest write failed: %v\n", err)
	}

	return summary, nil
}
