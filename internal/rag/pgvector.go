package rag

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore runs nearest-neighbor queries directly against the knowledge_base
// table using the pgvector inner-product operator. Plain SQL keeps the hot
// path in single-digit milliseconds.
type PGStore struct {
	pool  *pgxpool.Pool
	table string
}

// NewPGStore wraps an existing pool. table defaults to "knowledge_base".
func NewPGStore(pool *pgxpool.Pool, table string) *PGStore {
	if table == "" {
		table = "knowledge_base"
	}
	return &PGStore{pool: pool, table: table}
}

// Search returns the closest documents ascending by inner-product distance.
// Metadata comes back from Postgres as string-encoded JSON and is decoded
// here, once, at the boundary.
func (s *PGStore) Search(ctx context.Context, vector []float32, limit int) ([]Document, error) {
	if limit <= 0 {
		limit = 3
	}
	lit := vectorLiteral(vector)
	query := fmt.Sprintf(`
		SELECT id::text,
		       content,
		       json_build_object('product_name', product_name, 'category', category)::text AS metadata,
		       (embedding <#> $1::vector) * -1 AS similarity
		FROM %s
		ORDER BY embedding <#> $1::vector
		LIMIT $2`, s.table)

	rows, err := s.pool.Query(ctx, query, lit, limit)
	if err != nil {
		return nil, fmt.Errorf("pgvector query: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		var rawMeta string
		if err := rows.Scan(&d.ID, &d.Content, &rawMeta, &d.Similarity); err != nil {
			return nil, fmt.Errorf("pgvector scan: %w", err)
		}
		d.Metadata = decodeMetadata(rawMeta)
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgvector rows: %w", err)
	}
	return docs, nil
}

// Insert stores a catalog chunk with its embedding. Used by the ingest
// command, not by the serving path.
func (s *PGStore) Insert(ctx context.Context, content, productName, category string, vector []float32) error {
	query := fmt.Sprintf(
		`INSERT INTO %s (content, product_name, category, embedding) VALUES ($1, $2, $3, $4::vector)`,
		s.table)
	_, err := s.pool.Exec(ctx, query, content, productName, category, vectorLiteral(vector))
	if err != nil {
		return fmt.Errorf("pgvector insert: %w", err)
	}
	return nil
}

// Ping probes database liveness for the health endpoint.
func (s *PGStore) Ping(ctx context.Context) error {
	var one int
	return s.pool.QueryRow(ctx, "SELECT 1").Scan(&one)
}

// decodeMetadata tolerates malformed or null metadata; a bad row should
// degrade to empty fields, not fail the search.
func decodeMetadata(raw string) Metadata {
	var m Metadata
	if raw == "" {
		return m
	}
	_ = json.Unmarshal([]byte(raw), &m)
	return m
}

// vectorLiteral renders a float slice in pgvector's input syntax:
// "[0.1,0.2,...]".
func vectorLiteral(v []float32) string {
	var b strings.Builder
	b.Grow(len(v)*10 + 2)
	b.WriteByte('[')
	for i, f := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(f), 'f', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}
