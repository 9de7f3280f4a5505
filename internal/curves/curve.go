package curves

import (
	"context"
	"fmt"
	"sort"
)

// Point is one (time, value) key on a curve.
type Point struct {
	Time  float64 `json:"time"`
	Value float64 `json:"value"`
}

// Curve is an ordered run of points for one data path and array index.
type Curve struct {
	Path     string  `json:"path"`
	Index    int     `json:"index"`
	Group    string  `json:"group,omitempty"`
	Selected bool    `json:"selected,omitempty"`
	Points   []Point `json:"points"`
}

// Key identifies the curve across a take. Scalar curves (index 0) use the
// bare path.
func (c *Curve) Key() string {
	if c.Index == 0 {
		return c.Path
	}
	return fmt.Sprintf("%s[%d]", c.Path, c.Index)
}

// SortPoints orders points by time. Filters assume sorted input.
func (c *Curve) SortPoints() {
	sort.SliceStable(c.Points, func(i, j int) bool {
		return c.Points[i].Time < c.Points[j].Time
	})
}

// Sink owns the curves a filter runs over.
type Sink interface {
	// Curves returns the curves to filter. Filters mutate the returned
	// curves in place.
	Curves(ctx context.Context) ([]*Curve, error)

	// Update is called once after a filter finished mutating curves.
	Update(ctx context.Context, curves []*Curve) error
}

func lerp(a, b, v float64) float64 {
	return a*(1-v) + b*v
}

func remap(v, bias, scale float64) float64 {
	return (v - bias) * scale
}

func clamp01(v float64) float64 {
	return max(0, min(v, 1))
}
