package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/Simplici0/estatecalc/internal/scenario"
	"github.com/Simplici0/estatecalc/internal/store"
)

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Updates int
}

// Run saves the bundled sample scenarios in an idempotent way. A sample whose
// stored body differs from the bundled one is overwritten.
func Run(ctx context.Context, st *store.Store) (Stats, error) {
	samples, err := scenario.Samples()
	if err != nil {
		return Stats{}, fmt.Errorf("load sample scenarios: %w", err)
	}

	stats := Stats{}
	err = st.Tx(ctx, func(tx *store.Store) error {
		return ensureScenarios(ctx, tx, samples, &stats)
	})
	if err != nil {
		return Stats{}, err
	}

	return stats, nil
}

func ensureScenarios(ctx context.Context, tx *store.Store, list []*scenario.Scenario, stats *Stats) error {
	for _, sc := range list {
		body, err := sc.Marshal()
		if err != nil {
			return fmt.Errorf("encode scenario %s: %w", sc.Name, err)
		}

		existing, err := tx.GetScenario(ctx, sc.Name)
		switch {
		case errors.Is(err, store.ErrNotFound):
			stats.Inserts++
		case err != nil:
			return fmt.Errorf("check scenario %s: %w", sc.Name, err)
		case existing.Body == string(body) && existing.Description == sc.Description:
			continue
		default:
			stats.Updates++
		}

		if _, err := tx.SaveScenario(ctx, sc); err != nil {
			return err
		}
	}
	return nil
}
