// Package retarget converts raw capture frames into pose parameters.
//
// Settings is the source of truth edited by the host: group and per-channel
// enable flags, per-channel bias/scale, mirror mode and the shared head and
// eye rotation remaps. NewCalibration resolves Settings into a Calibration
// table; the table is always rebuilt whole, never patched.
//
// Retarget is a pure function:
//
//	delta  = frame[i] - neutral[i]
//	value  = (delta - bias[i]) * scale[i]      for enabled channels only
//	head   = remap(radians(frame[55:58]))      one shared bias/scale
//	eyes   = remap(radians(frame[58:62])), 0   one shared bias/scale
//
// Values are not clamped. Disabled channels produce no entry at all.
package retarget
