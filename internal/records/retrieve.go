// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package records

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pdiddy/recipe-engine/pkg/types"
)

// QueryOptions holds parameters for record index queries.
type QueryOptions struct {
	// Query is the FTS5 full-text search string over substrate and
	// source descriptions.
	Query string

	// DOI filters by source paper.
	DOI string

	// Flag keeps only records carrying the given quality flag.
	Flag string

	// MinConfidence drops records scored below the threshold.
	MinConfidence float64

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.DOI == "" && q.Flag == "" && q.MinConfidence == 0
}

// Retrieve queries the record index. Full-text queries rank by
// relevance; structured-only queries sort by paper, table, and
// insertion order so output stays deterministic.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]types.ConditionRecord, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT r.record FROM records_fts
			JOIN records r ON r.rowid = records_fts.rowid
			WHERE records_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(`SELECT r.record FROM records r WHERE 1=1`)
	}

	if opts.DOI != "" {
		qb.WriteString(` AND r.doi = ?`)
		args = append(args, opts.DOI)
	}
	if opts.Flag != "" {
		qb.WriteString(` AND EXISTS (SELECT 1 FROM json_each(r.flags) WHERE value = ?)`)
		args = append(args, opts.Flag)
	}
	if opts.MinConfidence > 0 {
		qb.WriteString(` AND r.confidence >= ?`)
		args = append(args, opts.MinConfidence)
	}

	if useFTS {
		qb.WriteString(` ORDER BY records_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY r.doi, r.table_id, r.rowid`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying record index: %w", err)
	}
	defer rows.Close()

	var results []types.ConditionRecord
	for rows.Next() {
		var blob string
		if err := rows.Scan(&blob); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		var rec types.ConditionRecord
		if err := json.Unmarshal([]byte(blob), &rec); err != nil {
			return nil, fmt.Errorf("decoding record: %w", err)
		}
		results = append(results, rec)
	}

	return results, rows.Err()
}
