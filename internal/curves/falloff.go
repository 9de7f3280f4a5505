package curves

import (
	"fmt"
	"math"
	"strings"
)

// Falloff is a blend kernel mapping [0,1] to [0,1].
type Falloff int

const (
	FalloffUniform Falloff = iota
	FalloffLinear
	FalloffSquare
	FalloffSquareInverse
	FalloffSmooth
	FalloffSmoothX2
)

// DefaultFalloff is the kernel used when none is configured.
const DefaultFalloff = FalloffSquareInverse

// Falloffs lists every kernel.
var Falloffs = []Falloff{
	FalloffUniform, FalloffLinear, FalloffSquare, FalloffSquareInverse, FalloffSmooth, FalloffSmoothX2,
}

var falloffNames = map[Falloff]string{
	FalloffUniform:       "UNIFORM",
	FalloffLinear:        "LINEAR",
	FalloffSquare:        "SQUARE",
	FalloffSquareInverse: "SQUARE_INVERSE",
	FalloffSmooth:        "SMOOTH",
	FalloffSmoothX2:      "SMOOTH_X2",
}

func (f Falloff) String() string {
	if n, ok := falloffNames[f]; ok {
		return n
	}
	return fmt.Sprintf("Falloff(%d)", int(f))
}

// ParseFalloff parses a kernel name, case-insensitively.
func ParseFalloff(s string) (Falloff, error) {
	u := strings.ToUpper(strings.TrimSpace(s))
	for f, n := range falloffNames {
		if n == u {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown falloff %q", s)
}

// Apply evaluates the kernel at x.
func (f Falloff) Apply(x float64) float64 {
	switch f {
	case FalloffLinear:
		return x
	case FalloffSquare:
		return x * x
	case FalloffSquareInverse:
		return 1 - (1-x)*(1-x)
	case FalloffSmooth:
		return math.Cos(x*math.Pi+math.Pi)/2 + 0.5
	case FalloffSmoothX2:
		return math.Cos(clamp01(x*2)*math.Pi+math.Pi)/2 + 0.5
	default:
		return 1
	}
}
