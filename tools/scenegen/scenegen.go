package main

import (
	"flag"
	"math"
	"os"

	"github.com/Pallinder/go-randomdata"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/mogaika/additive_anim/additive"
	"github.com/mogaika/additive_anim/hierarchy"
	"github.com/mogaika/additive_anim/scene"
	"github.com/mogaika/additive_anim/skeleton"
	"github.com/mogaika/additive_anim/utils"
)

type params struct {
	Seed   int64
	Joints int
	Frames int
	FPS    float64
	Root   string
	Takes  []string
}

func buildSkeleton(p params, names *utils.NameGenerator) *skeleton.Joint {
	joints := []*skeleton.Joint{skeleton.NewJoint(p.Root)}
	for len(joints) < p.Joints {
		// chains are more common than wide fans in real rigs
		parent := joints[len(joints)-1]
		if randomdata.Number(0, 3) == 0 {
			parent = joints[randomdata.Number(0, len(joints))]
		}
		j := parent.AddChild(skeleton.NewJoint(names.Name()))
		joints = append(joints, j)
	}
	return joints[0]
}

// wave keys a sine on every frame of rng.
func wave(t *scene.Take, joint string, axis skeleton.Axis, rng hierarchy.FrameRange, offset, amp, period float64) error {
	for f := rng.First; f <= rng.Last; f++ {
		v := offset + amp*math.Sin(2*math.Pi*float64(f-rng.First)/period)
		if err := t.Key(joint, skeleton.Rotation, axis, float64(f), v); err != nil {
			return err
		}
	}
	return nil
}

// generate builds a scene with an additive take, its reference take and an empty result take.
func generate(p params) (*scene.Scene, error) {
	if p.Joints < 1 || p.Frames < 1 {
		return nil, errors.Errorf("need at least one joint and one frame, got %d and %d", p.Joints, p.Frames)
	}
	if len(p.Takes) != additive.TakesRequired {
		return nil, errors.Errorf("need %d take names, got %v", additive.TakesRequired, p.Takes)
	}

	names := utils.NewNameGenerator(p.Seed, "b_")
	s, err := scene.New(buildSkeleton(p, names))
	if err != nil {
		return nil, err
	}
	s.SetFPS(p.FPS)
	rng := hierarchy.FrameRange{First: 0, Last: p.Frames - 1}
	if err := s.SetLoopRange(rng); err != nil {
		return nil, err
	}

	takes := make([]*scene.Take, len(p.Takes))
	for i, name := range p.Takes {
		if takes[i], err = s.AddTake(name); err != nil {
			return nil, err
		}
	}
	base, reference := takes[0], takes[1]

	var werr error
	s.Root().Walk(func(j *skeleton.Joint, depth int) bool {
		rest := scene.DefaultRest()
		if j.Parent != nil {
			rest.Translation[1] = randomdata.Decimal(5, 30, 2)
		}
		if werr = s.SetRest(j.Name, rest); werr != nil {
			return false
		}
		for _, axis := range skeleton.Axes {
			amp := randomdata.Decimal(1, 20, 2)
			period := float64(randomdata.Number(8, 48))
			if werr = wave(reference, j.Name, axis, rng, 0, amp, period); werr != nil {
				return false
			}
			// the additive layer is a constant lean on top of the same motion
			lean := randomdata.Decimal(-15, 15, 2)
			if werr = wave(base, j.Name, axis, rng, lean, amp, period); werr != nil {
				return false
			}
		}
		return true
	})
	if werr != nil {
		return nil, werr
	}

	log.Infof("[scenegen] %d joints, %d frames, %d keys", s.Root().Count(), p.Frames, base.KeyCount()+reference.KeyCount())
	return s, nil
}

func main() {
	var out string
	p := params{Takes: []string{"additive", "reference", "result"}}
	flag.StringVar(&out, "o", "", "Output scene yaml, stdout when empty")
	flag.Int64Var(&p.Seed, "seed", 0, "Random seed")
	flag.IntVar(&p.Joints, "joints", 12, "Joint count")
	flag.IntVar(&p.Frames, "frames", 30, "Frame count")
	flag.Float64Var(&p.FPS, "fps", scene.DefaultFPS, "Frame rate")
	flag.StringVar(&p.Root, "root", additive.DefaultRootJoint, "Root joint name")
	flag.Parse()

	s, err := generate(p)
	if err != nil {
		log.Fatal(err)
	}

	if out == "" {
		err = s.Save(os.Stdout)
	} else {
		err = s.SaveFile(out)
	}
	if err != nil {
		log.Fatal(err)
	}
}
