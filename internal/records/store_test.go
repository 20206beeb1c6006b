// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package records

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/recipe-engine/pkg/types"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, extractedDir), 0o755))

	store, err := NewStore(types.RecordStoreConfig{RecordsDir: dir})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, dir
}

func makeRecord(id, doi, substrate string, confidence float64, flags ...string) types.ConditionRecord {
	temp := 650.0
	return types.ConditionRecord{
		RecordID: id,
		Paper:    types.PaperMeta{DOI: &doi},
		Condition: types.Condition{
			TemperatureC: &temp,
			CarrierGas:   []string{"Ar"},
			GasFlowsSCCM: map[string]float64{"Ar": 50},
			Substrate:    &substrate,
		},
		Quality: types.Quality{
			Confidence:    confidence,
			Flags:         append([]string{types.FlagReviewTableRow}, flags...),
			MissingFields: []string{},
		},
	}
}

func writeJSONL(t *testing.T, path string, recs ...types.ConditionRecord) {
	t.Helper()
	var buf bytes.Buffer
	for _, rec := range recs {
		data, err := json.Marshal(rec)
		require.NoError(t, err)
		buf.Write(data)
		buf.WriteByte('\n')
	}
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestIngestAndRetrieve(t *testing.T) {
	store, dir := newTestStore(t)
	ctx := context.Background()

	path := filepath.Join(dir, extractedDir, "zhang2019.jsonl")
	want := makeRecord("abc123def456", "10.1000/a", "SiO2/Si", 0.9)
	writeJSONL(t, path, want, makeRecord("abc123def457", "10.1000/a", "sapphire", 0.7))

	var progress bytes.Buffer
	summary, err := store.Ingest(ctx, nil, &progress)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Indexed)
	assert.Equal(t, 1, summary.Total())
	assert.Contains(t, progress.String(), "indexing "+path)

	got, err := store.Retrieve(ctx, QueryOptions{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, want, got[0])
}

func TestIngestSkipsUnchanged(t *testing.T) {
	store, dir := newTestStore(t)
	ctx := context.Background()

	path := filepath.Join(dir, extractedDir, "liu2020.jsonl")
	writeJSONL(t, path, makeRecord("aaa111bbb222", "10.1000/b", "mica", 0.8))

	_, err := store.Ingest(ctx, []string{path}, &bytes.Buffer{})
	require.NoError(t, err)

	summary, err := store.Ingest(ctx, []string{path}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Skipped)
	assert.Zero(t, summary.Indexed)
}

func TestIngestUpdateReplaces(t *testing.T) {
	store, dir := newTestStore(t)
	ctx := context.Background()

	path := filepath.Join(dir, extractedDir, "liu2020.jsonl")
	writeJSONL(t, path, makeRecord("aaa111bbb222", "10.1000/b", "mica", 0.8))
	_, err := store.Ingest(ctx, []string{path}, &bytes.Buffer{})
	require.NoError(t, err)

	// Rewrite the file with a different record set and a new mod time.
	writeJSONL(t, path,
		makeRecord("ccc333ddd444", "10.1000/b", "mica", 0.85),
		makeRecord("eee555fff666", "10.1000/b", "quartz", 0.6),
	)
	require.NoError(t, os.Chtimes(path, time.Now(), time.Now().Add(time.Second)))

	summary, err := store.Ingest(ctx, []string{path}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Updated)

	got, err := store.Retrieve(ctx, QueryOptions{})
	require.NoError(t, err)
	require.Len(t, got, 2, "old rows must be replaced, not duplicated")
	assert.Equal(t, "ccc333ddd444", got[0].RecordID)
}

func TestIngestRecordIDCollisionSyncsFTS(t *testing.T) {
	store, dir := newTestStore(t)
	ctx := context.Background()

	// The same record_id arriving from two source files must replace the
	// indexed row and its FTS text, not accumulate either.
	pathA := filepath.Join(dir, extractedDir, "a.jsonl")
	pathB := filepath.Join(dir, extractedDir, "b.jsonl")
	writeJSONL(t, pathA, makeRecord("dup111222333", "10.1000/a", "SiO2/Si", 0.9))
	writeJSONL(t, pathB, makeRecord("dup111222333", "10.1000/a", "sapphire", 0.8))

	_, err := store.Ingest(ctx, []string{pathA}, &bytes.Buffer{})
	require.NoError(t, err)
	_, err = store.Ingest(ctx, []string{pathB}, &bytes.Buffer{})
	require.NoError(t, err)

	var recCount, ftsCount int
	require.NoError(t, store.db.QueryRow(`SELECT count(*) FROM records`).Scan(&recCount))
	require.NoError(t, store.db.QueryRow(`SELECT count(*) FROM records_fts`).Scan(&ftsCount))
	assert.Equal(t, 1, recCount)
	assert.Equal(t, recCount, ftsCount)

	// Only the new text is searchable.
	got, err := store.Retrieve(ctx, QueryOptions{Query: "sapphire"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	stale, err := store.Retrieve(ctx, QueryOptions{Query: "SiO2"})
	require.NoError(t, err)
	assert.Empty(t, stale)
}

func TestIngestMissingFile(t *testing.T) {
	store, dir := newTestStore(t)

	summary, err := store.Ingest(context.Background(),
		[]string{filepath.Join(dir, extractedDir, "nope.jsonl")}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Failed)
}

func TestRetrieveFilters(t *testing.T) {
	store, dir := newTestStore(t)
	ctx := context.Background()

	path := filepath.Join(dir, extractedDir, "mixed.jsonl")
	writeJSONL(t, path,
		makeRecord("r1aaaaaaaaaa", "10.1000/a", "SiO2/Si", 0.95),
		makeRecord("r2aaaaaaaaaa", "10.1000/a", "sapphire", 0.55, types.FlagRowSplit),
		makeRecord("r3aaaaaaaaaa", "10.1000/b", "sapphire", 0.75, types.FlagGasFlowPartial),
	)
	_, err := store.Ingest(ctx, []string{path}, &bytes.Buffer{})
	require.NoError(t, err)

	byDOI, err := store.Retrieve(ctx, QueryOptions{DOI: "10.1000/b"})
	require.NoError(t, err)
	require.Len(t, byDOI, 1)
	assert.Equal(t, "r3aaaaaaaaaa", byDOI[0].RecordID)

	byFlag, err := store.Retrieve(ctx, QueryOptions{Flag: types.FlagRowSplit})
	require.NoError(t, err)
	require.Len(t, byFlag, 1)
	assert.Equal(t, "r2aaaaaaaaaa", byFlag[0].RecordID)

	byConfidence, err := store.Retrieve(ctx, QueryOptions{MinConfidence: 0.7})
	require.NoError(t, err)
	assert.Len(t, byConfidence, 2)

	limited, err := store.Retrieve(ctx, QueryOptions{MaxResults: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestRetrieveFullText(t *testing.T) {
	store, dir := newTestStore(t)
	ctx := context.Background()

	path := filepath.Join(dir, extractedDir, "fts.jsonl")
	writeJSONL(t, path,
		makeRecord("f1aaaaaaaaaa", "10.1000/a", "SiO2/Si face-down", 0.9),
		makeRecord("f2aaaaaaaaaa", "10.1000/a", "c-plane sapphire", 0.9),
	)
	_, err := store.Ingest(ctx, []string{path}, &bytes.Buffer{})
	require.NoError(t, err)

	got, err := store.Retrieve(ctx, QueryOptions{Query: "sapphire"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "f2aaaaaaaaaa", got[0].RecordID)
}

func TestQueryOptionsIsEmpty(t *testing.T) {
	assert.True(t, QueryOptions{}.IsEmpty())
	assert.True(t, QueryOptions{MaxResults: 5}.IsEmpty())
	assert.False(t, QueryOptions{DOI: "10.1000/a"}.IsEmpty())
	assert.False(t, QueryOptions{MinConfidence: 0.5}.IsEmpty())
}

func TestExport(t *testing.T) {
	store, dir := newTestStore(t)
	ctx := context.Background()

	path := filepath.Join(dir, extractedDir, "exp.jsonl")
	writeJSONL(t, path, makeRecord("x1aaaaaaaaaa", "10.1000/a", "SiO2/Si", 0.9))
	_, err := store.Ingest(ctx, []string{path}, &bytes.Buffer{})
	require.NoError(t, err)

	require.NoError(t, store.ExportJSON(ctx, QueryOptions{}))
	data, err := os.ReadFile(filepath.Join(dir, indexDir, "export.json"))
	require.NoError(t, err)

	var recs []types.ConditionRecord
	require.NoError(t, json.Unmarshal(data, &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, "x1aaaaaaaaaa", recs[0].RecordID)

	require.NoError(t, store.ExportYAML(ctx, QueryOptions{}))
	yamlData, err := os.ReadFile(filepath.Join(dir, indexDir, "export.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(yamlData), "record_id: x1aaaaaaaaaa")
}
