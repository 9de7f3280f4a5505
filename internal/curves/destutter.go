package curves

import (
	"context"
	"fmt"
	"sort"
)

// Destutter removes every timepoint whose joint state equals the previous
// surviving timepoint, then rebuilds each curve from the survivors.
//
// A timepoint is a duplicate when each curve keyed there also has a key at
// the previous survivor with the same value. A curve keyed at the current
// timepoint but not at the previous survivor keeps the timepoint. Returns
// the number of timepoints removed.
func Destutter(curves []*Curve) int {
	joint := make(map[float64]map[string]float64)
	for _, c := range curves {
		k := c.Key()
		for _, p := range c.Points {
			state, ok := joint[p.Time]
			if !ok {
				state = make(map[string]float64)
				joint[p.Time] = state
			}
			state[k] = p.Value
		}
	}
	if len(joint) == 0 {
		return 0
	}

	times := make([]float64, 0, len(joint))
	for t := range joint {
		times = append(times, t)
	}
	sort.Float64s(times)

	survivors := make(map[float64]bool, len(times))
	prev := joint[times[0]]
	survivors[times[0]] = true
	removed := 0
	for _, t := range times[1:] {
		cur := joint[t]
		if sameState(prev, cur) {
			removed++
			continue
		}
		survivors[t] = true
		prev = cur
	}

	if removed == 0 {
		return 0
	}
	for _, c := range curves {
		kept := c.Points[:0]
		for _, p := range c.Points {
			if survivors[p.Time] {
				kept = append(kept, p)
			}
		}
		c.Points = kept
	}
	return removed
}

func sameState(prev, cur map[string]float64) bool {
	for k, v := range cur {
		pv, ok := prev[k]
		if !ok || pv != v {
			return false
		}
	}
	return true
}

// DestutterSink runs Destutter over the sink's curves and updates the sink.
func DestutterSink(ctx context.Context, sink Sink) (int, error) {
	curves, err := sink.Curves(ctx)
	if err != nil {
		return 0, fmt.Errorf("load curves: %w", err)
	}
	for _, c := range curves {
		c.SortPoints()
	}
	removed := Destutter(curves)
	if err := sink.Update(ctx, curves); err != nil {
		return removed, fmt.Errorf("update curves: %w", err)
	}
	return removed, nil
}
