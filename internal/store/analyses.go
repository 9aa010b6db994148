package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Simplici0/estatecalc/internal/analyzer"
)

// AnalysisSummary is one row of the analysis listing.
type AnalysisSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Years     int       `json:"years"`
	Error     string    `json:"error,omitempty"`
}

// Analysis is a stored run: the cells it was given and the dataset it produced.
type Analysis struct {
	AnalysisSummary
	Input  analyzer.Dataset `json:"input"`
	Output analyzer.Dataset `json:"output"`
}

type analysisRow struct {
	ID         string `db:"id"`
	Name       string `db:"name"`
	CreatedAt  string `db:"created_at"`
	Years      int    `db:"years"`
	Error      string `db:"error"`
	InputJSON  string `db:"input_json"`
	OutputJSON string `db:"output_json"`
}

func (r analysisRow) summary() AnalysisSummary {
	return AnalysisSummary{
		ID:        r.ID,
		Name:      r.Name,
		CreatedAt: parseTime(r.CreatedAt),
		Years:     r.Years,
		Error:     r.Error,
	}
}

// SaveAnalysis stores a run under a fresh ID. Only the cells of input are kept.
func (s *Store) SaveAnalysis(ctx context.Context, name string, input, output analyzer.Dataset) (Analysis, error) {
	input = analyzer.Dataset{FixedCells: input.FixedCells, YearlyCells: input.YearlyCells}

	inJSON, err := json.Marshal(input)
	if err != nil {
		return Analysis{}, fmt.Errorf("encode analysis input: %w", err)
	}
	outJSON, err := json.Marshal(output)
	if err != nil {
		return Analysis{}, fmt.Errorf("encode analysis output: %w", err)
	}

	row := analysisRow{
		ID:         uuid.NewString(),
		Name:       name,
		CreatedAt:  s.stamp(),
		Years:      len(output.Outputs),
		Error:      output.Error,
		InputJSON:  string(inJSON),
		OutputJSON: string(outJSON),
	}
	if _, err := sqlx.NamedExecContext(ctx, s.q, `
		INSERT INTO analyses (id, name, created_at, years, error, input_json, output_json)
		VALUES (:id, :name, :created_at, :years, :error, :input_json, :output_json)
	`, row); err != nil {
		return Analysis{}, fmt.Errorf("insert analysis: %w", err)
	}

	return Analysis{AnalysisSummary: row.summary(), Input: input, Output: output}, nil
}

// GetAnalysis loads the run with the given ID.
func (s *Store) GetAnalysis(ctx context.Context, id string) (Analysis, error) {
	var row analysisRow
	err := s.q.GetContext(ctx, &row, `
		SELECT id, name, created_at, years, error, input_json, output_json
		FROM analyses
		WHERE id = ?
	`, id)
	if err != nil {
		return Analysis{}, notFound(err, "analysis "+id)
	}

	a := Analysis{AnalysisSummary: row.summary()}
	if err := json.Unmarshal([]byte(row.InputJSON), &a.Input); err != nil {
		return Analysis{}, fmt.Errorf("decode analysis input: %w", err)
	}
	if err := json.Unmarshal([]byte(row.OutputJSON), &a.Output); err != nil {
		return Analysis{}, fmt.Errorf("decode analysis output: %w", err)
	}
	return a, nil
}

// ListAnalyses returns stored runs, newest first. A non-empty query keeps
// runs whose name or error contains it.
func (s *Store) ListAnalyses(ctx context.Context, query string) ([]AnalysisSummary, error) {
	query = strings.TrimSpace(query)
	search := "%" + query + "%"

	var rows []analysisRow
	err := s.q.SelectContext(ctx, &rows, `
		SELECT id, name, created_at, years, error, '' AS input_json, '' AS output_json
		FROM analyses
		WHERE (? = '' OR name LIKE ? OR error LIKE ?)
		ORDER BY created_at DESC, rowid DESC
	`, query, search, search)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}

	out := make([]AnalysisSummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.summary())
	}
	return out, nil
}
