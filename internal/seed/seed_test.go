package seed

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/mairateam/calculators/internal/db"
	"github.com/mairateam/calculators/internal/migrations"
	"github.com/mairateam/calculators/internal/scenario"
)

func TestRunIsIdempotent(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "seed-test.db")
	database, err := db.Open(dbPath)
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	defer database.Close()

	if err := migrations.Up(database); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	cfg := Config{Currency: "EUR"}

	for i := 0; i < 10; i++ {
		stats, err := Run(database, cfg)
		if err != nil {
			t.Fatalf("run seed (iteration=%d): %v", i, err)
		}
		if i == 0 {
			if stats.Inserts != 2 {
				t.Fatalf("expected 2 inserts in first run, got %d", stats.Inserts)
			}
			continue
		}
		if stats.Inserts != 0 {
			t.Fatalf("expected 0 inserts in iteration %d, got %d", i, stats.Inserts)
		}
	}

	assertCount(t, database, `SELECT COUNT(*) FROM scenarios WHERE kind = ? AND title = ?`, []any{"ppc", "Default PPC projection"}, 1)
	assertCount(t, database, `SELECT COUNT(*) FROM scenarios WHERE kind = ? AND title = ?`, []any{"unit_economics", "Default unit economics"}, 1)
	assertCount(t, database, `SELECT COUNT(*) FROM scenarios WHERE currency = ?`, "EUR", 2)
}

func TestRunStoresComputedPresetOutputs(t *testing.T) {
	t.Parallel()

	database, err := db.Open(filepath.Join(t.TempDir(), "seed-outputs.db"))
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	defer database.Close()

	if err := migrations.Up(database); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	if _, err := Run(database, Config{}); err != nil {
		t.Fatalf("run seed: %v", err)
	}

	list, err := scenario.NewStore(database).List(context.Background(), "Default PPC")
	if err != nil {
		t.Fatalf("list scenarios: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 ppc preset, got %d", len(list))
	}
	if list[0].Currency != "CZK" {
		t.Fatalf("expected default currency CZK, got %q", list[0].Currency)
	}

	_, out, err := list[0].PPC()
	if err != nil {
		t.Fatalf("decode preset: %v", err)
	}
	if out.Costs != 500 {
		t.Fatalf("expected preset costs 500, got %v", out.Costs)
	}
}

func TestRunWithoutSchemaFails(t *testing.T) {
	t.Parallel()

	database, err := db.Open(filepath.Join(t.TempDir(), "seed-empty.db"))
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	defer database.Close()

	if _, err := Run(database, Config{}); err == nil {
		t.Fatalf("expected error without scenarios table")
	}
}

func assertCount(t *testing.T, database *sql.DB, query string, args any, expected int) {
	t.Helper()

	var count int
	var err error
	switch v := args.(type) {
	case nil:
		err = database.QueryRow(query).Scan(&count)
	case []any:
		err = database.QueryRow(query, v...).Scan(&count)
	default:
		err = database.QueryRow(query, v).Scan(&count)
	}
	if err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if count != expected {
		t.Fatalf("expected count %d, got %d", expected, count)
	}
}
