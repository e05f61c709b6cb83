package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/JeWeidn/tkc-Chatbot/internal/core/domain"
)

const chunkColumns = `id, content, source, page, title, doc_type, ects_lp, responsibility, part_of, component_type, language`

// SearchLexical ranks chunks by BM25 over content and title. The raw
// question is reduced to quoted OR-joined terms so FTS5 operators in
// user input cannot break the match expression.
func (s *Store) SearchLexical(ctx context.Context, query string, k int) ([]domain.ScoredChunk, error) {
	match := ftsMatchExpr(query)
	if match == "" || k <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `SELECT `+prefixed("c", chunkColumns)+`, bm25(chunks_fts) AS rank
		FROM chunks_fts
		JOIN chunks c ON c.rowid = chunks_fts.rowid
		WHERE chunks_fts MATCH ?
		ORDER BY rank, c.id
		LIMIT ?`, match, k)
	if err != nil {
		return nil, fmt.Errorf("lexical query: %w", err)
	}
	defer rows.Close()

	return scanScoredChunks(rows, func(rank float64) float64 {
		// bm25() is lower-is-better; fusion expects higher-is-better.
		return -rank
	})
}

// SearchDense scores every embedded chunk by cosine similarity against
// the query vector and returns the top k. The corpus is small enough
// that a full scan stays cheap.
func (s *Store) SearchDense(ctx context.Context, queryVector []float32, k int) ([]domain.ScoredChunk, error) {
	if len(queryVector) == 0 || k <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `SELECT `+chunkColumns+`, embedding
		FROM chunks WHERE embedding IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("dense scan: %w", err)
	}
	defer rows.Close()

	var scored []domain.ScoredChunk
	for rows.Next() {
		var blob []byte
		chunk, err := scanChunk(rows, &blob)
		if err != nil {
			return nil, err
		}
		vec, err := decodeVector(blob)
		if err != nil {
			return nil, fmt.Errorf("chunk %q: %w", chunk.ID, err)
		}
		scored = append(scored, domain.ScoredChunk{Chunk: chunk, Score: cosineSimilarity(queryVector, vec)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("dense scan: %w", err)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Chunk.ID < scored[j].Chunk.ID
	})
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

// SearchAttribute retrieves structured chunks matching the inferred
// metadata constraints, ranked lexically against the question when it
// yields match terms and by title otherwise.
func (s *Store) SearchAttribute(ctx context.Context, query string, filter domain.AttributeFilter, k int) ([]domain.ScoredChunk, error) {
	if filter.IsZero() || k <= 0 {
		return nil, nil
	}

	var (
		conds []string
		args  []any
	)
	conds = append(conds, `c.doc_type = ?`)
	args = append(args, string(domain.DocTypeStructured))

	if filter.EctsValue != nil {
		op, ok := sqlNumberOp(filter.EctsOp)
		if !ok {
			return nil, fmt.Errorf("attribute query: unsupported operator %q", filter.EctsOp)
		}
		conds = append(conds, `c.ects_lp IS NOT NULL AND c.ects_lp `+op+` ?`)
		args = append(args, *filter.EctsValue)
	}
	if filter.Responsibility != "" {
		conds = append(conds, `instr(lower(c.responsibility), lower(?)) > 0`)
		args = append(args, filter.Responsibility)
	}

	where := strings.Join(conds, " AND ")
	match := ftsMatchExpr(query)

	var (
		rows *sql.Rows
		err  error
	)
	if match != "" {
		queryArgs := append([]any{match}, args...)
		queryArgs = append(queryArgs, k)
		rows, err = s.db.QueryContext(ctx, `SELECT `+prefixed("c", chunkColumns)+`, bm25(chunks_fts) AS rank
			FROM chunks_fts
			JOIN chunks c ON c.rowid = chunks_fts.rowid
			WHERE chunks_fts MATCH ? AND `+where+`
			ORDER BY rank, c.id
			LIMIT ?`, queryArgs...)
	} else {
		args = append(args, k)
		rows, err = s.db.QueryContext(ctx, `SELECT `+prefixed("c", chunkColumns)+`, 0 AS rank
			FROM chunks c
			WHERE `+where+`
			ORDER BY c.title, c.id
			LIMIT ?`, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("attribute query: %w", err)
	}
	defer rows.Close()

	return scanScoredChunks(rows, func(rank float64) float64 { return -rank })
}

func sqlNumberOp(op domain.NumberOp) (string, bool) {
	switch op {
	case domain.OpGreater:
		return ">", true
	case domain.OpGreaterEqual:
		return ">=", true
	case domain.OpEqual, "":
		return "=", true
	case domain.OpLessEqual:
		return "<=", true
	case domain.OpLess:
		return "<", true
	}
	return "", false
}

// ftsMatchExpr reduces free text to `"term" OR "term" ...`. Terms are
// letter or digit runs; everything else, including FTS5 syntax, is
// stripped.
func ftsMatchExpr(query string) string {
	var (
		terms []string
		b     strings.Builder
	)
	flush := func() {
		if b.Len() > 1 {
			terms = append(terms, `"`+b.String()+`"`)
		}
		b.Reset()
	}
	for _, r := range strings.ToLower(query) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
			b.WriteRune(r)
			continue
		}
		flush()
	}
	flush()
	return strings.Join(terms, " OR ")
}

func prefixed(alias, columns string) string {
	parts := strings.Split(columns, ", ")
	for i, p := range parts {
		parts[i] = alias + "." + p
	}
	return strings.Join(parts, ", ")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanChunk(row rowScanner, extra ...any) (domain.Chunk, error) {
	var (
		c       domain.Chunk
		docType string
		ects    sql.NullFloat64
	)
	dest := []any{
		&c.ID, &c.Content, &c.Metadata.Source, &c.Metadata.Page, &c.Metadata.Title,
		&docType, &ects, &c.Metadata.Responsibility, &c.Metadata.PartOf,
		&c.Metadata.ComponentType, &c.Metadata.Language,
	}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return domain.Chunk{}, fmt.Errorf("scanning chunk row: %w", err)
	}
	c.Metadata.DocType = domain.DocType(docType)
	if ects.Valid {
		v := ects.Float64
		c.Metadata.EctsLP = &v
	}
	return c, nil
}

func scanScoredChunks(rows *sql.Rows, scoreOf func(rank float64) float64) ([]domain.ScoredChunk, error) {
	var out []domain.ScoredChunk
	for rows.Next() {
		var rank float64
		chunk, err := scanChunk(rows, &rank)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.ScoredChunk{Chunk: chunk, Score: scoreOf(rank)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading chunk rows: %w", err)
	}
	return out, nil
}
