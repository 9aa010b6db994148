package store

import (
	"context"
	"fmt"
	"time"

	"github.com/Simplici0/estatecalc/internal/scenario"
)

// ScenarioRecord is a saved scenario. Body holds its YAML text.
type ScenarioRecord struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Body        string    `json:"body"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Scenario decodes the stored body.
func (r ScenarioRecord) Scenario() (*scenario.Scenario, error) {
	return scenario.Parse([]byte(r.Body))
}

type scenarioRow struct {
	ID          int64  `db:"id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	Body        string `db:"body"`
	CreatedAt   string `db:"created_at"`
	UpdatedAt   string `db:"updated_at"`
}

func (r scenarioRow) record() ScenarioRecord {
	return ScenarioRecord{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Body:        r.Body,
		CreatedAt:   parseTime(r.CreatedAt),
		UpdatedAt:   parseTime(r.UpdatedAt),
	}
}

const scenarioColumns = `id, name, description, body, created_at, updated_at`

// SaveScenario inserts sc, or replaces the body of the scenario with the same name.
func (s *Store) SaveScenario(ctx context.Context, sc *scenario.Scenario) (ScenarioRecord, error) {
	body, err := sc.Marshal()
	if err != nil {
		return ScenarioRecord{}, fmt.Errorf("encode scenario %s: %w", sc.Name, err)
	}

	now := s.stamp()
	if _, err := s.q.ExecContext(ctx, `
		INSERT INTO scenarios (name, description, body, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			description = excluded.description,
			body = excluded.body,
			updated_at = excluded.updated_at
	`, sc.Name, sc.Description, string(body), now, now); err != nil {
		return ScenarioRecord{}, fmt.Errorf("upsert scenario %s: %w", sc.Name, err)
	}

	return s.GetScenario(ctx, sc.Name)
}

// GetScenario loads the scenario with the given name.
func (s *Store) GetScenario(ctx context.Context, name string) (ScenarioRecord, error) {
	var row scenarioRow
	if err := s.q.GetContext(ctx, &row, `SELECT `+scenarioColumns+` FROM scenarios WHERE name = ?`, name); err != nil {
		return ScenarioRecord{}, notFound(err, "scenario "+name)
	}
	return row.record(), nil
}

// ListScenarios returns every saved scenario ordered by name.
func (s *Store) ListScenarios(ctx context.Context) ([]ScenarioRecord, error) {
	var rows []scenarioRow
	if err := s.q.SelectContext(ctx, &rows, `SELECT `+scenarioColumns+` FROM scenarios ORDER BY name`); err != nil {
		return nil, fmt.Errorf("list scenarios: %w", err)
	}

	out := make([]ScenarioRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.record())
	}
	return out, nil
}
