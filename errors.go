package freakgen

import "errors"

// Sentinel errors. Parse functions wrap them together with the offending
// input and still return a usable fallback value.
var (
	ErrInvalidStyle     = errors.New("invalid style")
	ErrInvalidIntensity = errors.New("invalid intensity")
	ErrInvalidEngine    = errors.New("invalid engine")
	ErrInvalidModule    = errors.New("invalid module")
	ErrPresetNotFound   = errors.New("preset not found")
	ErrNoOutput         = errors.New("no MIDI output selected")
)
