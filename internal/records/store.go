// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package records persists extracted condition records in a SQLite
// index with full-text search over the descriptive fields.
// See docs/ARCHITECTURE § Record Index.
package records

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/recipe-engine/pkg/types"
)

const (
	extractedDir = "extracted"
	indexDir     = "index"
	dbFile       = "recipes.db"
)

// Store manages the condition-record SQLite database.
type Store struct {
	db         *sql.DB
	recordsDir string
	maxResults int
}

// NewStore opens or creates the record index at
// recordsDir/index/recipes.db, creating the schema if needed.
func NewStore(cfg types.RecordStoreConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.RecordsDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{
		db:         db,
		recordsDir: cfg.RecordsDir,
		maxResults: maxResults,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS records (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			record_id TEXT NOT NULL UNIQUE,
			doi TEXT,
			table_id TEXT,
			temperature_c REAL,
			growth_time_min REAL,
			pressure_torr REAL,
			substrate TEXT,
			mo_source TEXT,
			s_source TEXT,
			confidence REAL NOT NULL,
			flags TEXT NOT NULL,
			record TEXT NOT NULL,
			source_file TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_doi ON records(doi)`,
		`CREATE INDEX IF NOT EXISTS idx_records_confidence ON records(confidence)`,
		`CREATE TABLE IF NOT EXISTS ingest_status (
			source_file TEXT PRIMARY KEY,
			file_mod_time TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 table over the descriptive text, synced by triggers.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='records_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE records_fts USING fts5(text)`,
			`CREATE TRIGGER records_ai AFTER INSERT ON records BEGIN
				INSERT INTO records_fts(rowid, text) VALUES (new.rowid,
					coalesce(new.substrate,'') || ' ' ||
					coalesce(new.mo_source,'') || ' ' ||
					coalesce(new.s_source,''));
			END`,
			`CREATE TRIGGER records_ad AFTER DELETE ON records BEGIN
				DELETE FROM records_fts WHERE rowid = old.rowid;
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// IngestSummary holds counts from an ingestion run.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of files processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// Ingest reads JSONL extraction files and populates the index. With no
// explicit files it scans recordsDir/extracted/. Unchanged files are
// skipped via their recorded mod-time; changed files replace their old
// rows so re-extraction never duplicates records.
func (s *Store) Ingest(ctx context.Context, files []string, w io.Writer) (IngestSummary, error) {
	if len(files) == 0 {
		extractDir := filepath.Join(s.recordsDir, extractedDir)
		entries, err := os.ReadDir(extractDir)
		if err != nil {
			return IngestSummary{}, fmt.Errorf("reading extraction directory %s: %w", extractDir, err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".jsonl") {
				continue
			}
			files = append(files, filepath.Join(extractDir, entry.Name()))
		}
	}

	var summary IngestSummary

	for _, path := range files {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		info, err := os.Stat(path)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", path, err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		var storedModTime string
		err = s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM ingest_status WHERE source_file = ?`, path,
		).Scan(&storedModTime)

		if err == nil && storedModTime == modTime {
			fmt.Fprintf(w, "skipped %s\n", path)
			summary.Skipped++
			continue
		}
		isUpdate := err == nil

		recs, err := readJSONL(path)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", path, err)
			summary.Failed++
			continue
		}

		if err := s.ingestFile(ctx, path, recs, modTime, isUpdate); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", path, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s (%d records)\n", path, len(recs))
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexing %s (%d records)\n", path, len(recs))
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)

	return summary, nil
}

// readJSONL parses one ConditionRecord per non-blank line.
func readJSONL(path string) ([]types.ConditionRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var recs []types.ConditionRecord
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var rec types.ConditionRecord
		if err := json.Unmarshal([]byte(text), &rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		recs = append(recs, rec)
	}
	return recs, scanner.Err()
}

func (s *Store) ingestFile(ctx context.Context, path string, recs []types.ConditionRecord, modTime string, isUpdate bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if isUpdate {
		if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE source_file = ?`, path); err != nil {
			return fmt.Errorf("deleting old records: %w", err)
		}
	}

	// Replacing a colliding record_id goes through an explicit DELETE so
	// the AFTER DELETE trigger removes the old FTS row; INSERT OR
	// REPLACE would skip the trigger and strand it.
	delStmt, err := tx.PrepareContext(ctx, `DELETE FROM records WHERE record_id = ?`)
	if err != nil {
		return fmt.Errorf("preparing delete: %w", err)
	}
	defer delStmt.Close()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records
			(record_id, doi, table_id, temperature_c, growth_time_min, pressure_torr,
			 substrate, mo_source, s_source, confidence, flags, record, source_file)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range recs {
		blob, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshaling record %s: %w", rec.RecordID, err)
		}
		flagsJSON, _ := json.Marshal(rec.Quality.Flags)

		if _, err := delStmt.ExecContext(ctx, rec.RecordID); err != nil {
			return fmt.Errorf("deleting stale record %s: %w", rec.RecordID, err)
		}
		_, err = stmt.ExecContext(ctx,
			rec.RecordID,
			strPtr(rec.Paper.DOI), strPtr(rec.Paper.TableID),
			rec.Condition.TemperatureC, rec.Condition.GrowthTimeMin, rec.Condition.PressureTorr,
			strPtr(rec.Condition.Substrate), strPtr(rec.Condition.MoSource), strPtr(rec.Condition.SSource),
			rec.Quality.Confidence, string(flagsJSON), string(blob), path,
		)
		if err != nil {
			return fmt.Errorf("inserting record %s: %w", rec.RecordID, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO ingest_status (source_file, file_mod_time) VALUES (?, ?)
		 ON CONFLICT(source_file) DO UPDATE SET file_mod_time=excluded.file_mod_time`,
		path, modTime,
	)
	if err != nil {
		return fmt.Errorf("updating ingest status: %w", err)
	}

	return tx.Commit()
}

// strPtr adapts a *string for a nullable TEXT column.
func strPtr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
