package hierarchy

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/mogaika/additive_anim/matrix"
	"github.com/mogaika/additive_anim/skeleton"
)

type ShortSequenceError struct {
	Joint  string
	Offset int
	Need   int
	Len    int
}

func (e *ShortSequenceError) Error() string {
	return fmt.Sprintf("joint %q needs values [%d, %d) but sequence has %d",
		e.Joint, e.Offset, e.Offset+e.Need, e.Len)
}

// Write consumes values from offset in the same order Sample produces them and
// adds one rotation key per frame to every joint of the subtree.
// It returns the offset past the last consumed value.
func Write(w skeleton.KeyWriter, root *skeleton.Joint, rng FrameRange, values []matrix.Euler, offset int, timing KeyTiming) (int, error) {
	if err := rng.Validate(); err != nil {
		return offset, err
	}
	return write(w, root, rng, values, offset, timing)
}

func write(w skeleton.KeyWriter, j *skeleton.Joint, rng FrameRange, values []matrix.Euler, offset int, timing KeyTiming) (int, error) {
	count := rng.Count()
	if offset < 0 || offset+count > len(values) {
		return offset, &ShortSequenceError{Joint: j.Name, Offset: offset, Need: count, Len: len(values)}
	}

	for k := 0; k < count; k++ {
		t := timing.time(rng, k)
		for _, axis := range skeleton.Axes {
			if err := w.AddKey(j, skeleton.Rotation, axis, t, values[offset+k][axis]); err != nil {
				return offset, errors.Wrapf(err, "joint %q rotation %v key at %v", j.Name, axis, t)
			}
		}
	}
	offset += count

	for _, c := range j.Children {
		var err error
		if offset, err = write(w, c, rng, values, offset, timing); err != nil {
			return offset, err
		}
	}
	return offset, nil
}
