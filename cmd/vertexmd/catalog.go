// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meshintel/vertexmd/internal/catalog"
	"github.com/meshintel/vertexmd/pkg/types"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the conversation catalog (import, search, export)",
	Long: `Catalog maintains a local SQLite index of conversation exports with
full-text search over message text. Use subcommands to import exports,
search them, or dump the catalog.`,
}

// --- import subcommand ---

var catalogImportCmd = &cobra.Command{
	Use:   "import <dir>",
	Short: "Ingest conversation exports into the catalog",
	Long: `Import reads every .json export in the directory into the catalog
database with FTS5 indexing. Files unchanged since the last import are
skipped; changed files replace their previous messages.`,
	Args: cobra.ExactArgs(1),
	RunE: runCatalogImport,
}

func runCatalogImport(cmd *cobra.Command, args []string) error {
	cat, err := catalog.Open(catalogConfig(cmd))
	if err != nil {
		return err
	}
	defer cat.Close()

	summary, err := cat.Import(context.Background(), args[0], os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d export(s) failed import", summary.Failed)
	}
	return nil
}

// --- search subcommand ---

var catalogSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search cataloged messages with full-text search and filters",
	Long: `Search queries the catalog using FTS5 full-text search over message
bodies, structured filters (author, conversation), or a combination.
Results include the source export path.`,
	RunE: runCatalogSearch,
}

func runCatalogSearch(cmd *cobra.Command, args []string) error {
	cat, err := catalog.Open(catalogConfig(cmd))
	if err != nil {
		return err
	}
	defer cat.Close()

	opts := searchOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a search query, --author, or --conversation")
	}

	hits, err := cat.Search(context.Background(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatSearchOutput(hits, jsonOutput)
}

func formatSearchOutput(hits []catalog.Hit, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(hits)
	}

	if len(hits) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-24s  %-4s  %-12s  %s\n",
		"Rank", "Conversation", "Seq", "Author", "Text")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))

	for i, h := range hits {
		body := strings.ReplaceAll(h.Body, "\n", " ")
		if len(body) > 48 {
			body = body[:45] + "..."
		}
		conv := h.ConversationID
		if len(conv) > 24 {
			conv = conv[:21] + "..."
		}
		author := h.Author
		if len(author) > 12 {
			author = author[:9] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-24s  %-4d  %-12s  %s\n",
			i+1, conv, h.Seq, author, body)
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(hits))
	return nil
}

// --- export subcommand ---

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the catalog to YAML or JSON",
	Long: `Export writes every cataloged conversation with its messages to
export.yaml or export.json in the catalog directory.`,
	RunE: runCatalogExport,
}

func runCatalogExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	cfg := catalogConfig(cmd)
	cat, err := catalog.Open(cfg)
	if err != nil {
		return err
	}
	defer cat.Close()

	switch format {
	case "yaml", "":
		if err := cat.ExportYAML(context.Background()); err != nil {
			return err
		}
		fmt.Printf("Exported to %s/export.yaml\n", cfg.CatalogDir)
	case "json":
		if err := cat.ExportJSON(context.Background()); err != nil {
			return err
		}
		fmt.Printf("Exported to %s/export.json\n", cfg.CatalogDir)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	return nil
}

// --- shared helpers ---

func catalogConfig(cmd *cobra.Command) types.CatalogConfig {
	catalogDir, _ := cmd.Flags().GetString("catalog-dir")
	if catalogDir == "" {
		catalogDir = "catalog"
	}
	maxResults, _ := cmd.Flags().GetInt("max-results")

	return types.CatalogConfig{
		CatalogDir: catalogDir,
		MaxResults: maxResults,
	}
}

func searchOptsFromFlags(cmd *cobra.Command, args []string) catalog.Options {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}

	author, _ := cmd.Flags().GetString("author")
	conversation, _ := cmd.Flags().GetString("conversation")
	limit, _ := cmd.Flags().GetInt("limit")

	return catalog.Options{
		Query:          queryText,
		Author:         author,
		ConversationID: conversation,
		MaxResults:     limit,
	}
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	catalogCmd.PersistentFlags().String("catalog-dir", "catalog", "directory for catalog.db and export files")
	catalogCmd.PersistentFlags().Int("max-results", 20, "maximum number of search results")

	// Search flags.
	catalogSearchCmd.Flags().String("query", "", "full-text search query")
	catalogSearchCmd.Flags().String("author", "", "filter by resolved author label")
	catalogSearchCmd.Flags().String("conversation", "", "filter by conversation ID")
	catalogSearchCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	catalogSearchCmd.Flags().Bool("json", false, "output results as JSON")

	// Export flags.
	catalogExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	// Wire subcommands.
	catalogCmd.AddCommand(catalogImportCmd)
	catalogCmd.AddCommand(catalogSearchCmd)
	catalogCmd.AddCommand(catalogExportCmd)

	rootCmd.AddCommand(catalogCmd)
}
