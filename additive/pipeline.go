package additive

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/mogaika/additive_anim/hierarchy"
	"github.com/mogaika/additive_anim/matrix"
	"github.com/mogaika/additive_anim/skeleton"
)

const DefaultRootJoint = "b_Hips"

type State int

const (
	Idle State = iota
	ValidatingTakes
	SamplingBase
	SamplingSubtract
	Combining
	Writing
	Done
	Failed
)

var stateNames = [...]string{
	"idle", "validating takes", "sampling base", "sampling subtract",
	"combining", "writing", "done", "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

type Transition struct {
	Run  string
	From State
	To   State
	Take string
	Err  error
}

type Observer func(Transition)

type Options struct {
	RootJoint  string
	GimbalMode matrix.GimbalMode
	KeyTiming  hierarchy.KeyTiming
	// Range replaces the host loop range when set
	Range    *hierarchy.FrameRange
	Observer Observer
}

type Result struct {
	Run      string
	Base     string
	Subtract string
	Target   string
	Range    hierarchy.FrameRange
	Joints   int
	Values   []matrix.Euler
}

// Pipeline subtracts the second take from the first one and writes the
// rotation difference into the third take.
type Pipeline struct {
	host  Host
	opts  Options
	state State
	run   string
	take  string
	log   *log.Entry
}

func NewPipeline(host Host, opts Options) *Pipeline {
	if opts.RootJoint == "" {
		opts.RootJoint = DefaultRootJoint
	}
	run := uuid.NewString()
	return &Pipeline{
		host: host,
		opts: opts,
		run:  run,
		log:  log.WithField("run", run),
	}
}

// Run is a shortcut for NewPipeline(host, opts).Run().
func Run(host Host, opts Options) (*Result, error) {
	return NewPipeline(host, opts).Run()
}

func (p *Pipeline) State() State { return p.state }

func (p *Pipeline) RunID() string { return p.run }

func (p *Pipeline) enter(s State, err error) {
	t := Transition{Run: p.run, From: p.state, To: s, Take: p.take, Err: err}
	p.state = s

	entry := p.log.WithFields(log.Fields{"state": s.String(), "take": p.take})
	if err != nil {
		entry.WithError(err).Errorf("[additive] %v -> %v", t.From, s)
	} else {
		entry.Debugf("[additive] %v -> %v", t.From, s)
	}
	if p.opts.Observer != nil {
		p.opts.Observer(t)
	}
}

func (p *Pipeline) fail(err error) (*Result, error) {
	p.enter(Failed, err)
	return nil, err
}

func (p *Pipeline) Run() (*Result, error) {
	if p.state != Idle {
		return nil, errors.Errorf("pipeline %s already in state %v", p.run, p.state)
	}

	p.enter(ValidatingTakes, nil)
	takes := p.host.TakeNames()
	if len(takes) != TakesRequired {
		p.host.Notify(TakesTitle, TakesMessage)
		return p.fail(&PreconditionError{Takes: len(takes)})
	}
	res := &Result{Run: p.run, Base: takes[0], Subtract: takes[1], Target: takes[2]}

	rng, err := p.frameRange()
	if err != nil {
		return p.fail(err)
	}
	res.Range = rng

	root, err := p.host.FindJoint(p.opts.RootJoint)
	if err != nil {
		return p.fail(errors.Wrapf(err, "root joint %q", p.opts.RootJoint))
	}
	if root == nil {
		return p.fail(errors.Errorf("root joint %q not found", p.opts.RootJoint))
	}
	res.Joints = root.Count()

	p.take = res.Base
	p.enter(SamplingBase, nil)
	base, err := p.sample(res.Base, root, rng)
	if err != nil {
		return p.fail(err)
	}

	p.take = res.Subtract
	p.enter(SamplingSubtract, nil)
	sub, err := p.sample(res.Subtract, root, rng)
	if err != nil {
		return p.fail(err)
	}

	p.take = ""
	p.enter(Combining, nil)
	values, err := Combine(base, sub, p.opts.GimbalMode)
	if err != nil {
		return p.fail(err)
	}
	res.Values = values

	p.take = res.Target
	p.enter(Writing, nil)
	if err := p.write(res.Target, root, rng, values); err != nil {
		return p.fail(err)
	}

	p.enter(Done, nil)
	p.log.Infof("[additive] %q - %q -> %q: %d joints, frames %v",
		res.Base, res.Subtract, res.Target, res.Joints, rng)
	return res, nil
}

func (p *Pipeline) frameRange() (hierarchy.FrameRange, error) {
	if p.opts.Range != nil {
		return *p.opts.Range, p.opts.Range.Validate()
	}
	rng, err := p.host.LoopRange()
	if err != nil {
		return rng, errors.Wrapf(err, "loop range")
	}
	return rng, rng.Validate()
}

func (p *Pipeline) activate(take string) (Clip, error) {
	if err := p.host.SelectTake(take); err != nil {
		return nil, errors.Wrapf(err, "select take %q", take)
	}
	clip, err := p.host.Evaluate()
	if err != nil {
		return nil, errors.Wrapf(err, "evaluate take %q", take)
	}
	return clip, nil
}

func (p *Pipeline) sample(take string, root *skeleton.Joint, rng hierarchy.FrameRange) ([]matrix.Transform, error) {
	clip, err := p.activate(take)
	if err != nil {
		return nil, err
	}
	seq, err := hierarchy.Sample(clip, root, rng)
	if err != nil {
		return nil, errors.Wrapf(err, "sample take %q", take)
	}
	return seq, nil
}

func (p *Pipeline) write(take string, root *skeleton.Joint, rng hierarchy.FrameRange, values []matrix.Euler) error {
	clip, err := p.activate(take)
	if err != nil {
		return err
	}
	next, err := hierarchy.Write(clip, root, rng, values, 0, p.opts.KeyTiming)
	if err != nil {
		return errors.Wrapf(err, "write take %q", take)
	}
	if next != len(values) {
		return errors.Errorf("write take %q consumed %d of %d values", take, next, len(values))
	}
	return nil
}

// Combine returns ExtractEuler(base[i] * inverse(sub[i])) for every sample.
func Combine(base, sub []matrix.Transform, mode matrix.GimbalMode) ([]matrix.Euler, error) {
	if len(base) != len(sub) {
		return nil, &StructuralMismatchError{Base: len(base), Subtract: len(sub)}
	}
	values := make([]matrix.Euler, len(base))
	for i := range base {
		inv, err := matrix.Invert(sub[i])
		if err != nil {
			return nil, errors.Wrapf(err, "invert subtract sample %d", i)
		}
		values[i] = matrix.ExtractEuler(matrix.Multiply(base[i], inv), mode)
	}
	return values, nil
}
