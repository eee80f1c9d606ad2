package hierarchy

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/additive_anim/matrix"
	"github.com/mogaika/additive_anim/skeleton"
	"github.com/mogaika/additive_anim/utils"
)

type key struct {
	joint string
	ch    skeleton.Channel
	axis  skeleton.Axis
	time  float64
	value float64
}

// recordingClip answers rotation X = id(joint)*5 + time and records keys.
type recordingClip struct {
	ids     map[string]int
	reads   []string
	keys    []key
	failAdd string
}

func newRecordingClip(root *skeleton.Joint) *recordingClip {
	c := &recordingClip{ids: make(map[string]int)}
	for i, n := range root.Names() {
		c.ids[n] = i
	}
	return c
}

func (c *recordingClip) EvaluateChannel(j *skeleton.Joint, ch skeleton.Channel, axis skeleton.Axis, time float64) (float64, error) {
	if ch == skeleton.Rotation && axis == skeleton.X {
		c.reads = append(c.reads, j.Name)
		return float64(c.ids[j.Name]*5) + time, nil
	}
	if ch == skeleton.Scaling {
		return 1, nil
	}
	return 0, nil
}

func (c *recordingClip) AddKey(j *skeleton.Joint, ch skeleton.Channel, axis skeleton.Axis, time float64, value float64) error {
	if j.Name == c.failAdd {
		return assert.AnError
	}
	c.keys = append(c.keys, key{j.Name, ch, axis, time, value})
	return nil
}

func chain() *skeleton.Joint {
	root := skeleton.NewJoint("b_Hips")
	root.AddChild(skeleton.NewJoint("b_Spine"))
	return root
}

func randomTree(r *rand.Rand, names *utils.NameGenerator, size int) *skeleton.Joint {
	joints := []*skeleton.Joint{skeleton.NewJoint(names.Name())}
	for len(joints) < size {
		j := skeleton.NewJoint(names.Name())
		joints[r.Intn(len(joints))].AddChild(j)
		joints = append(joints, j)
	}
	return joints[0]
}

func TestFrameRange(t *testing.T) {
	assert.Equal(t, 1, FrameRange{5, 5}.Count())
	assert.Equal(t, 31, FrameRange{0, 30}.Count())
	assert.NoError(t, FrameRange{3, 3}.Validate())

	var rerr *InvalidRangeError
	require.ErrorAs(t, FrameRange{3, 2}.Validate(), &rerr)
	assert.Equal(t, FrameRange{3, 2}, rerr.Range)
}

func TestSampleLayout(t *testing.T) {
	root := skeleton.NewJoint("a")
	b := root.AddChild(skeleton.NewJoint("b"))
	b.AddChild(skeleton.NewJoint("c"))
	root.AddChild(skeleton.NewJoint("d"))

	clip := newRecordingClip(root)
	seq, err := Sample(clip, root, FrameRange{2, 4})
	require.NoError(t, err)
	require.Len(t, seq, 12)

	// node frames contiguous, then children in order
	assert.Equal(t, []string{"a", "a", "a", "b", "b", "b", "c", "c", "c", "d", "d", "d"}, clip.reads)
	for i, m := range seq {
		id, frame := i/3, 2+i%3
		want := matrix.Compose([3]float64{}, [3]float64{float64(id*5 + frame), 0, 0}, [3]float64{1, 1, 1})
		assert.Truef(t, m.ApproxEqual(want, 1e-12), "sample %d", i)
	}
}

func TestSampleInvalidRange(t *testing.T) {
	root := chain()
	clip := newRecordingClip(root)
	_, err := Sample(clip, root, FrameRange{1, 0})
	var rerr *InvalidRangeError
	assert.ErrorAs(t, err, &rerr)
	assert.Empty(t, clip.reads)
}

func TestWriteTiming(t *testing.T) {
	values := []matrix.Euler{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}, {10, 11, 12}}

	var tests = []struct {
		timing KeyTiming
		times  []float64
	}{
		{KeysFromZero, []float64{0, 1, 0, 1}},
		{KeysAtFrames, []float64{5, 6, 5, 6}},
	}
	for _, test := range tests {
		root := chain()
		clip := newRecordingClip(root)
		next, err := Write(clip, root, FrameRange{5, 6}, values, 0, test.timing)
		require.NoError(t, err)
		assert.Equal(t, len(values), next)
		require.Len(t, clip.keys, 12)

		for i, k := range clip.keys {
			frame := i / 3
			assert.Equal(t, skeleton.Rotation, k.ch)
			assert.Equal(t, skeleton.Axes[i%3], k.axis)
			assert.Equalf(t, test.times[frame], k.time, "%v key %d", test.timing, i)
			assert.Equal(t, values[frame][i%3], k.value)
		}
		assert.Equal(t, "b_Hips", clip.keys[0].joint)
		assert.Equal(t, "b_Spine", clip.keys[6].joint)
	}
}

func TestWriteShortSequence(t *testing.T) {
	root := chain()
	clip := newRecordingClip(root)
	next, err := Write(clip, root, FrameRange{0, 1}, make([]matrix.Euler, 3), 0, KeysFromZero)

	var serr *ShortSequenceError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "b_Spine", serr.Joint)
	assert.Equal(t, 2, serr.Offset)
	assert.Equal(t, 2, next)
	// the root keys stay written
	assert.Len(t, clip.keys, 6)
}

func TestWriteKeyError(t *testing.T) {
	root := chain()
	clip := newRecordingClip(root)
	clip.failAdd = "b_Spine"
	_, err := Write(clip, root, FrameRange{0, 0}, make([]matrix.Euler, 2), 0, KeysFromZero)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestTraversalCorrespondence(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	names := utils.NewNameGenerator(7, "b_")
	for i := 0; i < 20; i++ {
		root := randomTree(r, names, 1+r.Intn(25))
		require.NoError(t, root.Validate())
		rng := FrameRange{r.Intn(10), 0}
		rng.Last = rng.First + r.Intn(5)

		clip := newRecordingClip(root)
		seq, err := Sample(clip, root, rng)
		require.NoError(t, err)
		require.Len(t, seq, rng.Count()*root.Count())

		values := make([]matrix.Euler, len(seq))
		for i, m := range seq {
			values[i] = matrix.ExtractEuler(m, matrix.GimbalCompat)
		}
		next, err := Write(clip, root, rng, values, 0, KeysAtFrames)
		require.NoError(t, err)
		require.Equal(t, len(seq), next)

		// each written X key equals the sampled X rotation of the same joint and frame
		for i := 0; i < len(clip.keys); i += 3 {
			k := clip.keys[i]
			want := float64(clip.ids[k.joint]*5) + k.time
			require.InDeltaf(t, want, k.value, 1e-9, "joint %s frame %v", k.joint, k.time)
		}
	}
}

func TestParseKeyTiming(t *testing.T) {
	for _, k := range []KeyTiming{KeysFromZero, KeysAtFrames} {
		parsed, err := ParseKeyTiming(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
	_, err := ParseKeyTiming("later")
	assert.Error(t, err)
}
