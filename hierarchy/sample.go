package hierarchy

import (
	"github.com/mogaika/additive_anim/matrix"
	"github.com/mogaika/additive_anim/skeleton"
)

// Sample builds the local transform of root at every frame of rng, then
// appends the samples of each child subtree in children order.
// All frames of one joint are contiguous in the result.
func Sample(r skeleton.ChannelReader, root *skeleton.Joint, rng FrameRange) ([]matrix.Transform, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}
	seq := make([]matrix.Transform, 0, rng.Count()*root.Count())
	return sample(r, root, rng, seq)
}

func sample(r skeleton.ChannelReader, j *skeleton.Joint, rng FrameRange, seq []matrix.Transform) ([]matrix.Transform, error) {
	for t := rng.First; t <= rng.Last; t++ {
		m, err := matrix.BuildTransform(r, j, float64(t))
		if err != nil {
			return seq, err
		}
		seq = append(seq, m)
	}
	for _, c := range j.Children {
		var err error
		if seq, err = sample(r, c, rng, seq); err != nil {
			return seq, err
		}
	}
	return seq, nil
}
