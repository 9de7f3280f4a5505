package store

import "fmt"

// Bones names the armature bones rotation keys are written to.
type Bones struct {
	Head     string `yaml:"head" json:"head"`
	EyeLeft  string `yaml:"eye_left" json:"eye_left"`
	EyeRight string `yaml:"eye_right" json:"eye_right"`
}

// DefaultBones returns the stock rig bone names.
func DefaultBones() Bones {
	return Bones{Head: "Head", EyeLeft: "Eye.L", EyeRight: "Eye.R"}
}

// ShapeKeyPath is the data path of a blendshape weight curve.
func ShapeKeyPath(name string) string {
	return fmt.Sprintf("key_blocks[%q].value", name)
}

// BoneRotationPath is the data path of a bone's Euler rotation curves.
// Each axis is a separate curve with array index 0..2.
func BoneRotationPath(bone string) string {
	return fmt.Sprintf("pose.bones[%q].rotation_euler", bone)
}
