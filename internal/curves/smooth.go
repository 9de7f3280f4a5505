package curves

import (
	"context"
	"fmt"
	"math"
)

// SmoothOptions configures Smooth.
type SmoothOptions struct {
	// Samples is the half-window radius. The window spans 2*Samples+1 points.
	Samples int
	Falloff Falloff
	// Bias and Scale remap a point's value into the falloff input.
	Bias  float64
	Scale float64
	// SelectedOnly restricts smoothing to curves with Selected set.
	SelectedOnly bool
}

// DefaultSmoothOptions returns the stock filter settings.
func DefaultSmoothOptions() SmoothOptions {
	return SmoothOptions{Samples: 3, Falloff: DefaultFalloff, Scale: 1}
}

// Validate rejects negative radii.
func (o SmoothOptions) Validate() error {
	if o.Samples < 0 {
		return fmt.Errorf("samples must be >= 0, got %d", o.Samples)
	}
	return nil
}

// Smooth applies the windowed average to every eligible curve, then rounds
// the first and last point times of every curve to whole frames.
//
// Window indices are clamped at the curve ends, so edge points average the
// boundary point repeatedly. Averages are taken over the original points,
// never over already-smoothed ones.
func Smooth(curves []*Curve, opts SmoothOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	for _, c := range curves {
		if opts.SelectedOnly && !c.Selected {
			continue
		}
		smoothCurve(c, opts)
	}
	for _, c := range curves {
		roundEndpoints(c)
	}
	return nil
}

func smoothCurve(c *Curve, opts SmoothOptions) {
	n := len(c.Points)
	if n == 0 {
		return
	}
	orig := append([]Point(nil), c.Points...)
	last := n - 1
	total := float64(2*opts.Samples + 1)

	for i, p := range orig {
		x, y := p.Time, p.Value
		for k := 1; k <= opts.Samples; k++ {
			right := orig[min(i+k, last)]
			left := orig[max(i-k, 0)]
			x += right.Time + left.Time
			y += right.Value + left.Value
		}
		x /= total
		y /= total

		f := opts.Falloff.Apply(clamp01(remap(p.Value, opts.Bias, opts.Scale)))
		c.Points[i] = Point{
			Time:  lerp(p.Time, x, f),
			Value: lerp(p.Value, y, f),
		}
	}
}

// roundEndpoints rounds half to even.
func roundEndpoints(c *Curve) {
	n := len(c.Points)
	if n == 0 {
		return
	}
	c.Points[0].Time = math.RoundToEven(c.Points[0].Time)
	c.Points[n-1].Time = math.RoundToEven(c.Points[n-1].Time)
}

// SmoothSink runs Smooth over the sink's curves and updates the sink.
func SmoothSink(ctx context.Context, sink Sink, opts SmoothOptions) error {
	curves, err := sink.Curves(ctx)
	if err != nil {
		return fmt.Errorf("load curves: %w", err)
	}
	for _, c := range curves {
		c.SortPoints()
	}
	if err := Smooth(curves, opts); err != nil {
		return err
	}
	if err := sink.Update(ctx, curves); err != nil {
		return fmt.Errorf("update curves: %w", err)
	}
	return nil
}
