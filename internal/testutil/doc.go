// Package testutil provides fakes and helpers shared by package tests:
// a pose target and sample sink that record what they receive, canned
// frames, and loopback UDP helpers.
//
// Packages that testutil imports (frame, retarget, recording) must not
// use it from their own tests.
package testutil
