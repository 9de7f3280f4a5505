package curves

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func curve(path string, pts ...Point) *Curve {
	return &Curve{Path: path, Points: pts}
}

func times(c *Curve) []float64 {
	out := make([]float64, len(c.Points))
	for i, p := range c.Points {
		out[i] = p.Time
	}
	return out
}

func TestDestutter_CollapsesJointRuns(t *testing.T) {
	a := curve("a", Point{1, 0.5}, Point{2, 0.5}, Point{3, 0.5}, Point{4, 0.5})
	b := curve("b", Point{1, 0.2}, Point{2, 0.2}, Point{3, 0.2}, Point{4, 0.7})

	removed := Destutter([]*Curve{a, b})

	assert.Equal(t, 2, removed)
	assert.Equal(t, []float64{1, 4}, times(a))
	assert.Equal(t, []float64{1, 4}, times(b))
	assert.Equal(t, 0.7, b.Points[1].Value)
}

func TestDestutter_ChangeInOneCurveKeepsTimepointForAll(t *testing.T) {
	a := curve("a", Point{1, 0}, Point{2, 0}, Point{3, 0})
	b := curve("b", Point{1, 0}, Point{2, 1}, Point{3, 1})

	Destutter([]*Curve{a, b})

	assert.Equal(t, []float64{1, 2}, times(a))
	assert.Equal(t, []float64{1, 2}, times(b))
}

func TestDestutter_ComparesAgainstSurvivor(t *testing.T) {
	// 1, 2 and 3 are equal; 4 returns to the same state and is also
	// dropped because 1 is the survivor it is compared against.
	a := curve("a", Point{1, 1}, Point{2, 1}, Point{3, 1}, Point{4, 1}, Point{5, 2})

	removed := Destutter([]*Curve{a})
	assert.Equal(t, 3, removed)
	assert.Equal(t, []float64{1, 5}, times(a))
}

func TestDestutter_CurveMissingAtSurvivorKeepsTimepoint(t *testing.T) {
	a := curve("a", Point{1, 1}, Point{2, 1}, Point{3, 1})
	b := curve("b", Point{2, 4})

	Destutter([]*Curve{a, b})

	assert.Equal(t, []float64{1, 2}, times(a))
	assert.Equal(t, []float64{2}, times(b))
}

func TestDestutter_SparseCurvesRetainNoExtraPoints(t *testing.T) {
	a := curve("a", Point{1, 1}, Point{2, 2}, Point{3, 3})
	b := curve("b", Point{1, 0}, Point{3, 0})

	assert.Equal(t, 0, Destutter([]*Curve{a, b}))
	assert.Equal(t, []float64{1, 2, 3}, times(a))
	assert.Equal(t, []float64{1, 3}, times(b))
}

func TestDestutter_IndexedCurvesAreDistinct(t *testing.T) {
	x := &Curve{Path: `pose.bones["Head"].rotation_euler`, Index: 0, Points: []Point{{1, 0}, {2, 0}}}
	y := &Curve{Path: `pose.bones["Head"].rotation_euler`, Index: 1, Points: []Point{{1, 0}, {2, 0.3}}}

	Destutter([]*Curve{x, y})

	assert.Equal(t, []float64{1, 2}, times(x))
	assert.Equal(t, []float64{1, 2}, times(y))
}

func TestDestutter_Empty(t *testing.T) {
	assert.Equal(t, 0, Destutter(nil))
	assert.Equal(t, 0, Destutter([]*Curve{curve("a")}))
}

type memorySink struct {
	curves  []*Curve
	updated int
	loadErr error
}

func (s *memorySink) Curves(context.Context) ([]*Curve, error) {
	return s.curves, s.loadErr
}

func (s *memorySink) Update(context.Context, []*Curve) error {
	s.updated++
	return nil
}

func TestDestutterSink(t *testing.T) {
	sink := &memorySink{curves: []*Curve{
		curve("a", Point{3, 1}, Point{1, 1}, Point{2, 1}),
	}}

	removed, err := DestutterSink(context.Background(), sink)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, sink.updated)
	assert.Equal(t, []float64{1}, times(sink.curves[0]))
}

func TestDestutterSink_LoadError(t *testing.T) {
	sink := &memorySink{loadErr: errors.New("no take")}
	_, err := DestutterSink(context.Background(), sink)
	require.Error(t, err)
	assert.Equal(t, 0, sink.updated)
}
