package hierarchy

import (
	"fmt"

	"github.com/pkg/errors"
)

// FrameRange is an inclusive range of integer frames.
type FrameRange struct {
	First int `json:"first" yaml:"first"`
	Last  int `json:"last" yaml:"last"`
}

func (r FrameRange) Count() int {
	return r.Last - r.First + 1
}

func (r FrameRange) Validate() error {
	if r.Last < r.First {
		return &InvalidRangeError{Range: r}
	}
	return nil
}

func (r FrameRange) String() string {
	return fmt.Sprintf("[%d, %d]", r.First, r.Last)
}

type InvalidRangeError struct {
	Range FrameRange
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid frame range %v: last frame before first", e.Range)
}

// KeyTiming selects the time written keys are placed at.
type KeyTiming int

const (
	// KeysFromZero writes frame k of the range at time k.
	KeysFromZero KeyTiming = iota
	// KeysAtFrames writes frame k of the range at time First+k.
	KeysAtFrames
)

func (k KeyTiming) String() string {
	if k == KeysAtFrames {
		return "frames"
	}
	return "zero"
}

func ParseKeyTiming(s string) (KeyTiming, error) {
	switch s {
	case "", "zero":
		return KeysFromZero, nil
	case "frames":
		return KeysAtFrames, nil
	}
	return KeysFromZero, errors.Errorf("unknown key timing %q", s)
}

func (k KeyTiming) time(rng FrameRange, i int) float64 {
	if k == KeysAtFrames {
		return float64(rng.First + i)
	}
	return float64(i)
}
