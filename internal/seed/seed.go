package seed

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mairateam/calculators/internal/ppc"
	"github.com/mairateam/calculators/internal/scenario"
	"github.com/mairateam/calculators/internal/uniteconomics"
)

const (
	defaultPPCTitle           = "Default PPC projection"
	defaultUnitEconomicsTitle = "Default unit economics"
	presetNotes               = "Preset"
)

// Config contains the values required by startup seed.
type Config struct {
	Currency string
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
}

// Run inserts the preset scenarios built from each calculator's default
// inputs. Running it again inserts nothing.
func Run(db *sql.DB, cfg Config) (Stats, error) {
	tx, err := db.Begin()
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	ppcPreset, err := scenario.NewPPC(defaultPPCTitle, presetNotes, cfg.Currency, ppc.DefaultInputs())
	if err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := ensureScenario(tx, ppcPreset, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}

	uePreset, err := scenario.NewUnitEconomics(defaultUnitEconomicsTitle, presetNotes, cfg.Currency, uniteconomics.DefaultInputs())
	if err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := ensureScenario(tx, uePreset, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensureScenario(tx *sql.Tx, s scenario.Scenario, stats *Stats) error {
	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM scenarios WHERE kind = ? AND title = ? LIMIT 1)`, string(s.Kind), s.Title).Scan(&exists); err != nil {
		return fmt.Errorf("check %s preset existence: %w", s.Kind, err)
	}
	if exists {
		return nil
	}

	id, err := scenario.NewID()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(`
		INSERT INTO scenarios (id, kind, title, notes, currency, inputs_json, outputs_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, id, string(s.Kind), s.Title, s.Notes, s.Currency, s.InputsJSON, s.OutputsJSON, time.Now().UTC().Truncate(time.Second)); err != nil {
		return fmt.Errorf("insert %s preset: %w", s.Kind, err)
	}
	stats.Inserts++
	return nil
}
