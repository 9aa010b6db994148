package seed

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/Simplici0/estatecalc/internal/db"
	"github.com/Simplici0/estatecalc/internal/migrations"
	"github.com/Simplici0/estatecalc/internal/scenario"
	"github.com/Simplici0/estatecalc/internal/store"
)

func newSeedDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "seed-test.db")
	database, err := db.Open(dbPath)
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := migrations.Up(database.DB); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return database
}

func TestRunIsIdempotent(t *testing.T) {
	database := newSeedDB(t)
	st := store.New(database)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		stats, err := Run(ctx, st)
		if err != nil {
			t.Fatalf("run seed (iteration=%d): %v", i, err)
		}
		if i == 0 {
			if stats.Inserts != 2 {
				t.Fatalf("expected 2 inserts in first run, got %d", stats.Inserts)
			}
			continue
		}
		if stats.Inserts != 0 || stats.Updates != 0 {
			t.Fatalf("expected no writes in iteration %d, got %+v", i, stats)
		}
	}

	assertCount(t, database, `SELECT COUNT(*) FROM scenarios`, nil, 2)
	assertCount(t, database, `SELECT COUNT(*) FROM scenarios WHERE name = ?`, "tokyo-wood-apartment", 1)
}

func TestRunRestoresEditedSample(t *testing.T) {
	database := newSeedDB(t)
	st := store.New(database)
	ctx := context.Background()

	if _, err := Run(ctx, st); err != nil {
		t.Fatalf("first run: %v", err)
	}

	edited, ok := scenario.Sample("osaka-rc-mansion")
	if !ok {
		t.Fatalf("sample osaka-rc-mansion missing")
	}
	edited.Description = "edited by hand"
	if _, err := st.SaveScenario(ctx, edited); err != nil {
		t.Fatalf("save edited scenario: %v", err)
	}

	stats, err := Run(ctx, st)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if stats.Inserts != 0 || stats.Updates != 1 {
		t.Fatalf("expected a single update, got %+v", stats)
	}

	assertCount(t, database, `SELECT COUNT(*) FROM scenarios WHERE description = ?`, "edited by hand", 0)
}

func assertCount(t *testing.T, database *sqlx.DB, query string, args any, expected int) {
	t.Helper()

	var count int
	var err error
	switch v := args.(type) {
	case nil:
		err = database.Get(&count, query)
	case []any:
		err = database.Get(&count, query, v...)
	default:
		err = database.Get(&count, query, v)
	}
	if err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if count != expected {
		t.Fatalf("expected count %d, got %d", expected, count)
	}
}
