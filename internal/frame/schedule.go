package frame

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Names is the fixed blendshape schedule, indexed by channel.
var Names = [WeightCount]string{
	"BrowInnerUp",
	"BrowDownLeft",
	"BrowDownRight",
	"BrowOuterUpLeft",
	"BrowOuterUpRight",
	"EyeLookUpLeft",
	"EyeLookUpRight",
	"EyeLookDownLeft",
	"EyeLookDownRight",
	"EyeLookInLeft",
	"EyeLookInRight",
	"EyeLookOutLeft",
	"EyeLookOutRight",
	"EyeBlinkLeft",
	"EyeBlinkRight",
	"EyeSquintLeft",
	"EyeSquintRight",
	"EyeWideLeft",
	"EyeWideRight",
	"CheekPuff",
	"CheekSquintLeft",
	"CheekSquintRight",
	"NoseSneerLeft",
	"NoseSneerRight",
	"JawOpen",
	"JawForward",
	"JawLeft",
	"JawRight",
	"MouthFunnel",
	"MouthPucker",
	"MouthLeft",
	"MouthRight",
	"MouthRollUpper",
	"MouthRollLower",
	"MouthShrugUpper",
	"MouthShrugLower",
	"MouthClose",
	"MouthSmileLeft",
	"MouthSmileRight",
	"MouthFrownLeft",
	"MouthFrownRight",
	"MouthDimpleLeft",
	"MouthDimpleRight",
	"MouthUpperUpLeft",
	"MouthUpperUpRight",
	"MouthLowerDownLeft",
	"MouthLowerDownRight",
	"MouthPressLeft",
	"MouthPressRight",
	"MouthStretchLeft",
	"MouthStretchRight",
	"TongueOut",
}

// Group identifies one of the seven contiguous blendshape sets.
type Group int

const (
	GroupBrow Group = iota
	GroupEye
	GroupCheek
	GroupNose
	GroupJaw
	GroupMouth
	GroupTongue
)

// GroupCount is the number of blendshape groups.
const GroupCount = 7

// Groups lists every group in schedule order.
var Groups = [GroupCount]Group{
	GroupBrow, GroupEye, GroupCheek, GroupNose, GroupJaw, GroupMouth, GroupTongue,
}

type groupSpan struct {
	name  string
	start int
	count int
}

var groupSpans = [GroupCount]groupSpan{
	{"brow", 0, 5},
	{"eye", 5, 14},
	{"cheek", 19, 3},
	{"nose", 22, 2},
	{"jaw", 24, 4},
	{"mouth", 28, 23},
	{"tongue", 51, 1},
}

// Side is the facial side a channel belongs to, derived from its name suffix.
type Side int

const (
	SideCenter Side = iota
	SideLeft
	SideRight
)

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return "center"
	}
}

// Lookup tables, built once from Names and groupSpans.
var (
	channelGroup [WeightCount]Group
	channelSide  [WeightCount]Side
	counterpart  [WeightCount]int
	nameIndex    = make(map[string]int, WeightCount)
	groupLabels  [GroupCount]string
)

func init() {
	for i, n := range Names {
		nameIndex[n] = i
	}

	title := cases.Title(language.English)
	for g, span := range groupSpans {
		groupLabels[g] = title.String(span.name)
		for i := span.start; i < span.start+span.count; i++ {
			channelGroup[i] = Group(g)
		}
	}

	for i, n := range Names {
		counterpart[i] = -1
		switch {
		case strings.HasSuffix(n, "Left"):
			channelSide[i] = SideLeft
			counterpart[i] = nameIndex[strings.TrimSuffix(n, "Left")+"Right"]
		case strings.HasSuffix(n, "Right"):
			channelSide[i] = SideRight
			counterpart[i] = nameIndex[strings.TrimSuffix(n, "Right")+"Left"]
		}
	}
}

// String returns the lowercase group name used in configuration ("brow").
func (g Group) String() string {
	if g < 0 || int(g) >= GroupCount {
		return "unknown"
	}
	return groupSpans[g].name
}

// Label returns the capitalised group name used for curve grouping ("Brow").
func (g Group) Label() string {
	if g < 0 || int(g) >= GroupCount {
		return ""
	}
	return groupLabels[g]
}

// Start returns the first channel index of the group.
func (g Group) Start() int { return groupSpans[g].start }

// Len returns the number of channels in the group.
func (g Group) Len() int { return groupSpans[g].count }

// ParseGroup resolves a lowercase group name.
func ParseGroup(name string) (Group, bool) {
	for g, span := range groupSpans {
		if span.name == name {
			return Group(g), true
		}
	}
	return 0, false
}

// GroupOf returns the group a weight channel belongs to.
func GroupOf(channel int) Group { return channelGroup[channel] }

// SideOf returns the facial side of a weight channel.
func SideOf(channel int) Side { return channelSide[channel] }

// Counterpart returns the opposite-side channel for a Left or Right
// suffixed channel, or -1 for center channels.
func Counterpart(channel int) int { return counterpart[channel] }

// Index returns the channel index for a blendshape name.
func Index(name string) (int, bool) {
	i, ok := nameIndex[name]
	return i, ok
}

// WriteSchedule writes one line per weight channel: index, name, group
// label and mirror counterpart ("-" for center channels).
func WriteSchedule(w io.Writer) error {
	for i, n := range Names {
		other := "-"
		if c := counterpart[i]; c >= 0 {
			other = Names[c]
		}
		if _, err := fmt.Fprintf(w, "%2d  %-20s %-7s %s\n", i, n, channelGroup[i].Label(), other); err != nil {
			return err
		}
	}
	return nil
}
