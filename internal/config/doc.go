// Package config loads the capture session configuration.
//
// Files ending in .yaml, .yml or .json are parsed with yaml.v3 on top of
// Default(). Files ending in .cue are compiled with the CUE SDK and unified
// with the embedded schema, whose defaults fill any omitted field. Both
// paths are checked against the same schema and then converted into the
// retarget, receiver and curve filter settings.
package config
