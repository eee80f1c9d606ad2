package additive

import (
	"github.com/mogaika/additive_anim/hierarchy"
	"github.com/mogaika/additive_anim/skeleton"
)

// Clip is the channel access of the take that was active when it was evaluated.
type Clip interface {
	skeleton.ChannelReader
	skeleton.KeyWriter
}

// Host is the animation application the pipeline runs against.
// Only one take is active at a time; SelectTake must be followed by
// Evaluate before channels of the new take may be read or written.
type Host interface {
	TakeNames() []string
	SelectTake(name string) error
	Evaluate() (Clip, error)
	FindJoint(name string) (*skeleton.Joint, error)
	LoopRange() (hierarchy.FrameRange, error)
	// Notify shows a blocking message to the user
	Notify(title, message string)
}
