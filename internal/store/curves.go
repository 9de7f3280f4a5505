package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/visage/internal/curves"
)

// Keyframe is one key to insert on a take curve.
type Keyframe struct {
	Path  string
	Index int
	Group string
	Time  float64
	Value float64
}

// InsertKeyframes writes keys into a take in one transaction, creating
// curves on first use. A key at an existing (curve, time) replaces the
// stored value.
func (s *Store) InsertKeyframes(ctx context.Context, takeID string, keys []Keyframe) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert keyframes: begin tx: %w", err)
	}
	defer tx.Rollback()

	ids := make(map[curveKey]int64)
	for _, k := range keys {
		ck := curveKey{k.Path, k.Index}
		id, ok := ids[ck]
		if !ok {
			id, err = upsertCurve(ctx, tx, takeID, k.Path, k.Index, k.Group)
			if err != nil {
				return fmt.Errorf("insert keyframes: %w", err)
			}
			ids[ck] = id
		}
		if err := upsertKey(ctx, tx, id, k.Time, k.Value); err != nil {
			return fmt.Errorf("insert keyframes: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert keyframes: commit: %w", err)
	}
	return nil
}

// LoadCurves returns every curve of a take with points ordered by time.
// Curves are ordered by data path then index.
func (s *Store) LoadCurves(ctx context.Context, takeID string) ([]*curves.Curve, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.data_path, c.array_index, c.group_name, c.selected, k.time, k.value
		FROM curves c
		LEFT JOIN keyframes k ON k.curve_id = c.id
		WHERE c.take_id = ?
		ORDER BY c.data_path COLLATE BINARY ASC, c.array_index ASC, k.time ASC
	`, takeID)
	if err != nil {
		return nil, fmt.Errorf("query curves: %w", err)
	}
	defer rows.Close()

	out := []*curves.Curve{}
	var cur *curves.Curve
	var curID int64 = -1
	for rows.Next() {
		var (
			id       int64
			c        curves.Curve
			selected bool
			t, v     sql.NullFloat64
		)
		if err := rows.Scan(&id, &c.Path, &c.Index, &c.Group, &selected, &t, &v); err != nil {
			return nil, fmt.Errorf("scan curve: %w", err)
		}
		if id != curID {
			c.Selected = selected
			cur = &c
			curID = id
			out = append(out, cur)
		}
		if t.Valid {
			cur.Points = append(cur.Points, curves.Point{Time: t.Float64, Value: v.Float64})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate curves: %w", err)
	}
	return out, nil
}

// ReplaceCurves overwrites the points and selection of each given curve in
// one transaction. Curves of the take that are not listed are untouched.
func (s *Store) ReplaceCurves(ctx context.Context, takeID string, cs []*curves.Curve) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace curves: begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, c := range cs {
		id, err := upsertCurve(ctx, tx, takeID, c.Path, c.Index, c.Group)
		if err != nil {
			return fmt.Errorf("replace curves: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE curves SET selected = ? WHERE id = ?`, c.Selected, id); err != nil {
			return fmt.Errorf("replace curves: select %s: %w", c.Key(), err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM keyframes WHERE curve_id = ?`, id); err != nil {
			return fmt.Errorf("replace curves: clear %s: %w", c.Key(), err)
		}
		for _, p := range c.Points {
			if err := upsertKey(ctx, tx, id, p.Time, p.Value); err != nil {
				return fmt.Errorf("replace curves: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace curves: commit: %w", err)
	}
	return nil
}

type curveKey struct {
	path  string
	index int
}

func upsertCurve(ctx context.Context, tx *sql.Tx, takeID, path string, index int, group string) (int64, error) {
	// DO UPDATE with a no-op assignment so RETURNING yields the existing row
	var id int64
	err := tx.QueryRowContext(ctx, `
		INSERT INTO curves (take_id, data_path, array_index, group_name)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(take_id, data_path, array_index) DO UPDATE SET group_name = excluded.group_name
		RETURNING id
	`, takeID, path, index, group).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert curve %s[%d]: %w", path, index, err)
	}
	return id, nil
}

func upsertKey(ctx context.Context, tx *sql.Tx, curveID int64, t, v float64) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO keyframes (curve_id, time, value)
		VALUES (?, ?, ?)
		ON CONFLICT(curve_id, time) DO UPDATE SET value = excluded.value
	`, curveID, t, v)
	if err != nil {
		return fmt.Errorf("upsert key at %g: %w", t, err)
	}
	return nil
}

// CurveSet exposes one take's curves as a curves.Sink.
type CurveSet struct {
	store *Store
	take  Take
}

// CurveSet returns a sink over the take's curves.
func (s *Store) CurveSet(take Take) *CurveSet {
	return &CurveSet{store: s, take: take}
}

// Curves loads the take's curves.
func (cs *CurveSet) Curves(ctx context.Context) ([]*curves.Curve, error) {
	return cs.store.LoadCurves(ctx, cs.take.ID)
}

// Update persists the filtered curves.
func (cs *CurveSet) Update(ctx context.Context, c []*curves.Curve) error {
	return cs.store.ReplaceCurves(ctx, cs.take.ID, c)
}

// SelectGroups marks curves whose group is in groups as selected and
// clears the rest. An empty groups list selects nothing.
func (s *Store) SelectGroups(ctx context.Context, takeID string, groups ...string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("select groups: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE curves SET selected = 0 WHERE take_id = ?`, takeID); err != nil {
		return fmt.Errorf("select groups: %w", err)
	}
	for _, g := range groups {
		if _, err := tx.ExecContext(ctx, `
			UPDATE curves SET selected = 1 WHERE take_id = ? AND group_name = ?
		`, takeID, g); err != nil {
			return fmt.Errorf("select groups: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("select groups: commit: %w", err)
	}
	return nil
}
