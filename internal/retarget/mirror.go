package retarget

import "strings"

// MirrorMode selects which side of the captured face drives both sides of
// the output.
type MirrorMode int

const (
	// MirrorNone applies every channel to its own slot.
	MirrorNone MirrorMode = iota
	// MirrorLeft drives Right slots with the Left channel values.
	MirrorLeft
	// MirrorRight drives Left slots with the Right channel values.
	MirrorRight
)

func (m MirrorMode) String() string {
	switch m {
	case MirrorLeft:
		return "LEFT"
	case MirrorRight:
		return "RIGHT"
	default:
		return "NONE"
	}
}

// ParseMirror accepts NONE, LEFT, RIGHT and the MIRROR_ prefixed forms,
// case-insensitively. The empty string is NONE.
func ParseMirror(s string) (MirrorMode, error) {
	switch strings.TrimPrefix(strings.ToUpper(s), "MIRROR_") {
	case "", "NONE":
		return MirrorNone, nil
	case "LEFT":
		return MirrorLeft, nil
	case "RIGHT":
		return MirrorRight, nil
	}
	return MirrorNone, &ConfigError{Code: ErrCodeUnknownValue, Field: "mirror", Message: "unknown mode " + s}
}
