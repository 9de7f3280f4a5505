package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrTakeNotFound is returned when a take name or ID has no row.
var ErrTakeNotFound = errors.New("take not found")

// Take is one recorded performance.
type Take struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	FrameLatency int    `json:"frame_latency"`
	Curves       int    `json:"curves"`
	Keyframes    int    `json:"keyframes"`
}

// CreateTake inserts a new take. Names are unique.
func (s *Store) CreateTake(ctx context.Context, name string, frameLatency int) (Take, error) {
	t := Take{ID: s.ids.Generate(), Name: name, FrameLatency: frameLatency}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO takes (id, name, frame_latency)
		VALUES (?, ?, ?)
	`, t.ID, t.Name, t.FrameLatency)
	if err != nil {
		return Take{}, fmt.Errorf("create take %q: %w", name, err)
	}
	return t, nil
}

// EnsureTake returns the named take, creating it when missing.
func (s *Store) EnsureTake(ctx context.Context, name string, frameLatency int) (Take, error) {
	t, err := s.TakeByName(ctx, name)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, ErrTakeNotFound) {
		return Take{}, err
	}
	return s.CreateTake(ctx, name, frameLatency)
}

// TakeByName looks a take up by name.
// Returns ErrTakeNotFound if no take has that name.
func (s *Store) TakeByName(ctx context.Context, name string) (Take, error) {
	row := s.db.QueryRowContext(ctx, takeSelect+`
		WHERE t.name = ?
		GROUP BY t.id
	`, name)
	t, err := scanTake(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Take{}, fmt.Errorf("%w: %q", ErrTakeNotFound, name)
	}
	if err != nil {
		return Take{}, fmt.Errorf("read take %q: %w", name, err)
	}
	return t, nil
}

// ListTakes returns every take in creation order.
// Returns an empty slice (not nil) when the store has no takes.
func (s *Store) ListTakes(ctx context.Context) ([]Take, error) {
	rows, err := s.db.QueryContext(ctx, takeSelect+`
		GROUP BY t.id
		ORDER BY t.id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query takes: %w", err)
	}
	defer rows.Close()

	takes := []Take{}
	for rows.Next() {
		t, err := scanTake(rows)
		if err != nil {
			return nil, err
		}
		takes = append(takes, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate takes: %w", err)
	}
	return takes, nil
}

// DeleteTake removes a take with its curves and keyframes.
func (s *Store) DeleteTake(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM takes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete take: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete take: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrTakeNotFound, id)
	}
	return nil
}

const takeSelect = `
	SELECT t.id, t.name, t.frame_latency,
	       COUNT(DISTINCT c.id), COUNT(k.curve_id)
	FROM takes t
	LEFT JOIN curves c ON c.take_id = t.id
	LEFT JOIN keyframes k ON k.curve_id = c.id
`

type scanner interface {
	Scan(dest ...any) error
}

func scanTake(row scanner) (Take, error) {
	var t Take
	if err := row.Scan(&t.ID, &t.Name, &t.FrameLatency, &t.Curves, &t.Keyframes); err != nil {
		return Take{}, err
	}
	return t, nil
}
