// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshintel/vertexmd/pkg/types"
)

func openTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	cat, err := Open(types.CatalogConfig{CatalogDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { cat.Close() })
	return cat
}

func writeExport(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const sampleExport = `{
	"context": "badger design chat",
	"messages": [
		{"author": "user", "content": {"parts": [{"text": "quad store with versioning"}]}},
		{"author": "model", "content": {"parts": [{"text": "use content-addressed blobs"}]}}
	]
}`

func TestImportAndSearch(t *testing.T) {
	cat := openTestCatalog(t)
	dir := t.TempDir()
	writeExport(t, dir, "design-chat.json", sampleExport)

	var log bytes.Buffer
	summary, err := cat.Import(context.Background(), dir, &log)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Imported)
	assert.Equal(t, 0, summary.Failed)
	assert.Contains(t, log.String(), "imported design-chat (2 messages)")

	hits, err := cat.Search(context.Background(), Options{Query: "versioning"})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "design-chat", hits[0].ConversationID)
	assert.Equal(t, 1, hits[0].Seq)
	assert.Equal(t, "User", hits[0].Author)
	assert.Contains(t, hits[0].Body, "quad store")
}

func TestImport_SkipsUnchanged(t *testing.T) {
	cat := openTestCatalog(t)
	dir := t.TempDir()
	writeExport(t, dir, "chat.json", sampleExport)

	_, err := cat.Import(context.Background(), dir, &bytes.Buffer{})
	require.NoError(t, err)

	summary, err := cat.Import(context.Background(), dir, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Imported)
	assert.Equal(t, 1, summary.Skipped)
}

func TestImport_UpdatesChanged(t *testing.T) {
	cat := openTestCatalog(t)
	dir := t.TempDir()
	path := writeExport(t, dir, "chat.json", sampleExport)

	_, err := cat.Import(context.Background(), dir, &bytes.Buffer{})
	require.NoError(t, err)

	updated := `{"messages": [{"author": "user", "content": "replaced body"}]}`
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))

	summary, err := cat.Import(context.Background(), dir, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Updated)

	// Old messages are gone; only the replacement remains.
	hits, err := cat.Search(context.Background(), Options{ConversationID: "chat"})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "replaced body", hits[0].Body)
}

func TestImport_CountsFailures(t *testing.T) {
	cat := openTestCatalog(t)
	dir := t.TempDir()
	writeExport(t, dir, "good.json", sampleExport)
	writeExport(t, dir, "bad.json", `{"messages": [`)
	writeExport(t, dir, "noparts.json", `{"messages": [{"content": {"role": "user"}}]}`)

	var log bytes.Buffer
	summary, err := cat.Import(context.Background(), dir, &log)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Imported)
	assert.Equal(t, 2, summary.Failed)
	assert.Equal(t, 3, summary.Total())
	assert.Contains(t, log.String(), "failed  bad")
}

func TestSearch_Filters(t *testing.T) {
	cat := openTestCatalog(t)
	dir := t.TempDir()
	writeExport(t, dir, "one.json", `{"messages": [
		{"author": "user", "content": "question about indexes"},
		{"author": "model", "content": "answer about indexes"}
	]}`)
	writeExport(t, dir, "two.json", `{"messages": [
		{"author": "user", "content": "unrelated"}
	]}`)

	_, err := cat.Import(context.Background(), dir, &bytes.Buffer{})
	require.NoError(t, err)

	hits, err := cat.Search(context.Background(), Options{Query: "indexes", Author: "Model"})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Model", hits[0].Author)

	hits, err = cat.Search(context.Background(), Options{ConversationID: "one"})
	require.NoError(t, err)
	assert.Len(t, hits, 2)
	assert.Equal(t, 1, hits[0].Seq)
	assert.Equal(t, 2, hits[1].Seq)

	hits, err = cat.Search(context.Background(), Options{ConversationID: "one", MaxResults: 1})
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestExport(t *testing.T) {
	cfg := types.CatalogConfig{CatalogDir: t.TempDir()}
	cat, err := Open(cfg)
	require.NoError(t, err)
	defer cat.Close()

	dir := t.TempDir()
	writeExport(t, dir, "chat.json", sampleExport)
	_, err = cat.Import(context.Background(), dir, &bytes.Buffer{})
	require.NoError(t, err)

	require.NoError(t, cat.ExportYAML(context.Background()))
	require.NoError(t, cat.ExportJSON(context.Background()))

	yamlData, err := os.ReadFile(filepath.Join(cfg.CatalogDir, "export.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(yamlData), "id: chat")
	assert.Contains(t, string(yamlData), "badger design chat")

	jsonData, err := os.ReadFile(filepath.Join(cfg.CatalogDir, "export.json"))
	require.NoError(t, err)
	assert.Contains(t, string(jsonData), `"id": "chat"`)
	assert.Contains(t, string(jsonData), "content-addressed blobs")
}
