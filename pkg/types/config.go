// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ConvertConfig holds settings for the convert command.
type ConvertConfig struct {
	// OutputDir is where batch mode writes Markdown files. Empty means
	// alongside the input files.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Force overwrites existing Markdown outputs in batch mode.
	Force bool `json:"force" yaml:"force"`
}

// CatalogConfig holds settings for the conversation catalog.
type CatalogConfig struct {
	// CatalogDir is the directory holding catalog.db and export files.
	CatalogDir string `json:"catalog_dir" yaml:"catalog_dir"`

	// MaxResults is the default maximum number of search results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}
