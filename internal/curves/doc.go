// Package curves implements the two cleanup filters run over baked
// animation curves.
//
// Destutter collapses runs of timepoints whose joint state across all
// curves does not change. Smooth replaces each point with a windowed
// average blended in by a falloff kernel of the point's value.
//
// Both filters mutate Curve points in place. The *Sink variants load
// curves from a Sink, filter them and hand the result back through
// Sink.Update so the owner can persist or redraw.
package curves
