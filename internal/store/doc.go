// Package store provides SQLite-backed storage for recorded takes.
//
// A take holds curves keyed by (data path, array index), each with an
// ordered set of (time, value) keyframes:
//   - Shape key weights: key_blocks["<Name>"].value, grouped by the
//     blendshape group label ("Mouth").
//   - Bone rotations: pose.bones["<Bone>"].rotation_euler with index 0..2,
//     grouped by bone name.
//
// TakeWriter is the sample sink used when a recording is baked, and
// CurveSet is the curve sink the Destutter and Smooth filters run over.
//
// Take IDs are UUIDv7, so ordering by ID lists takes in creation order.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity and cascading deletes
package store
