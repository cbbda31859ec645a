package scenario

import (
	"context"
	"database/sql"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/pkg/errors"
)

const (
	idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	idLength   = 10
)

// likeEscaper makes a search term match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// ErrNotFound is returned when no scenario has the requested ID.
var ErrNotFound = errors.New("scenario not found")

var columns = []string{
	"id", "kind", "title", "COALESCE(notes, '')", "currency", "inputs_json", "outputs_json", "created_at",
}

// Store persists scenarios in SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore returns a Store backed by db. The schema must already be migrated.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Create assigns an ID and creation time to s and saves it.
func (st *Store) Create(ctx context.Context, s Scenario) (Scenario, error) {
	id, err := NewID()
	if err != nil {
		return Scenario{}, err
	}
	s.ID = id
	s.CreatedAt = st.now().UTC().Truncate(time.Second)

	query, args, err := sq.Insert("scenarios").
		Columns("id", "kind", "title", "notes", "currency", "inputs_json", "outputs_json", "created_at").
		Values(s.ID, string(s.Kind), s.Title, s.Notes, s.Currency, s.InputsJSON, s.OutputsJSON, s.CreatedAt).
		ToSql()
	if err != nil {
		return Scenario{}, errors.Wrap(err, "build insert scenario")
	}

	if _, err := st.db.ExecContext(ctx, query, args...); err != nil {
		return Scenario{}, errors.Wrap(err, "insert scenario")
	}
	return s, nil
}

// NewID returns a fresh short scenario ID.
func NewID() (string, error) {
	id, err := gonanoid.Generate(idAlphabet, idLength)
	if err != nil {
		return "", errors.Wrap(err, "generate scenario id")
	}
	return id, nil
}

// Get loads one scenario.
func (st *Store) Get(ctx context.Context, id string) (Scenario, error) {
	query, args, err := sq.Select(columns...).
		From("scenarios").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return Scenario{}, errors.Wrap(err, "build select scenario")
	}

	s, err := scan(st.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return Scenario{}, ErrNotFound
	}
	if err != nil {
		return Scenario{}, errors.Wrapf(err, "query scenario %s", id)
	}
	return s, nil
}

// List returns scenarios newest first. A non-empty query keeps only scenarios
// whose title or notes contain it.
func (st *Store) List(ctx context.Context, query string) ([]Scenario, error) {
	b := sq.Select(columns...).
		From("scenarios").
		OrderBy("created_at DESC", "rowid DESC")
	if query != "" {
		pattern := "%" + likeEscaper.Replace(query) + "%"
		b = b.Where(sq.Or{
			sq.Expr(`title LIKE ? ESCAPE '\'`, pattern),
			sq.Expr(`COALESCE(notes, '') LIKE ? ESCAPE '\'`, pattern),
		})
	}

	q, args, err := b.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build list scenarios")
	}

	rows, err := st.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query scenarios")
	}
	defer rows.Close()

	scenarios := make([]Scenario, 0)
	for rows.Next() {
		s, err := scan(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan scenario")
		}
		scenarios = append(scenarios, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate scenarios")
	}

	return scenarios, nil
}

// Delete removes a scenario.
func (st *Store) Delete(ctx context.Context, id string) error {
	query, args, err := sq.Delete("scenarios").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return errors.Wrap(err, "build delete scenario")
	}

	result, err := st.db.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Wrapf(err, "delete scenario %s", id)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrapf(err, "delete scenario %s", id)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner) (Scenario, error) {
	var s Scenario
	var kind string
	err := row.Scan(&s.ID, &kind, &s.Title, &s.Notes, &s.Currency, &s.InputsJSON, &s.OutputsJSON, &s.CreatedAt)
	s.Kind = Kind(kind)
	return s, err
}
