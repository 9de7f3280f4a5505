// Package harness runs capture scenarios: scripted sequences of frames,
// calibration changes, recordings and filter passes executed against a real
// session and an in-memory take store.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: jaw_bake
//	description: "Held frames collapse after destutter"
//	config: ../configs/session.yaml   # optional, relative to the scenario
//	take: take1                       # optional, defaults to name
//	steps:
//	  - op: frame
//	    weights: { JawOpen: 0.5 }
//	    head: [10, 0, 0]
//	  - op: apply
//	  - op: key
//	    pos: 10
//	  - op: save
//	  - op: destutter
//	assertions:
//	  - type: weight
//	    name: JawOpen
//	    value: 0.5
//	  - type: curve
//	    key: key_blocks["JawOpen"].value
//	    times: [10]
//
// # Steps
//
//   - frame: replace the live frame (unlisted channels are zero)
//   - apply: retarget the live frame and record the pose
//   - key: capture the live frame at pos
//   - neutral, reset_neutral: capture or clear the neutral frame
//   - mirror: switch the mirror mode
//   - save: bake captured frames into the take
//   - clear: drop captured frames
//   - destutter, smooth: run a filter over the take's curves
//
// # Assertion Types
//
//   - weight: the last applied pose has channel name at value
//   - no_weight: the last applied pose omits channel name
//   - curve: the take has a curve with key, optionally checking count,
//     times and values
//   - curve_count: the take has exactly count curves
//
// # Deterministic Testing
//
// Every run uses a fresh in-memory database and fixed take IDs, and the
// receiver is never started, so traces are identical across runs and can
// be compared against golden files with RunWithGolden.
package harness
