package scene

import (
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/mogaika/additive_anim/additive"
	"github.com/mogaika/additive_anim/hierarchy"
	"github.com/mogaika/additive_anim/skeleton"
)

var (
	ErrInactiveTake = errors.New("take is no longer active")
	ErrNoActiveTake = errors.New("no active take")
)

const DefaultFPS = 30

// Rest is the joint pose used for channels a take has no keys for.
type Rest struct {
	Translation [3]float64
	Rotation    [3]float64
	Scaling     [3]float64
}

func DefaultRest() Rest {
	return Rest{Scaling: [3]float64{1, 1, 1}}
}

func (r Rest) channel(ch skeleton.Channel) [3]float64 {
	switch ch {
	case skeleton.Translation:
		return r.Translation
	case skeleton.Rotation:
		return r.Rotation
	default:
		return r.Scaling
	}
}

var _ additive.Host = (*Scene)(nil)

// Scene is an in-memory animation host with a single active take.
type Scene struct {
	mu   sync.Mutex
	runs sync.Mutex

	root  *skeleton.Joint
	rest  map[string]Rest
	takes []*Take
	loop  hierarchy.FrameRange
	fps   float64

	active     *Take
	generation uint64

	// Notifier receives user messages, logged when nil
	Notifier func(title, message string)
}

func New(root *skeleton.Joint) (*Scene, error) {
	if root == nil {
		return nil, errors.New("scene without skeleton")
	}
	if err := root.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid skeleton")
	}
	return &Scene{
		root: root,
		rest: make(map[string]Rest),
		fps:  DefaultFPS,
	}, nil
}

func (s *Scene) Root() *skeleton.Joint { return s.root }

func (s *Scene) Rest(joint string) Rest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.restOf(joint)
}

func (s *Scene) restOf(joint string) Rest {
	if r, ok := s.rest[joint]; ok {
		return r
	}
	return DefaultRest()
}

func (s *Scene) SetRest(joint string, r Rest) error {
	if s.root.Find(joint) == nil {
		return errors.Errorf("unknown joint %q", joint)
	}
	s.mu.Lock()
	s.rest[joint] = r
	s.mu.Unlock()
	return nil
}

func (s *Scene) FPS() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fps
}

func (s *Scene) SetFPS(fps float64) {
	if fps <= 0 {
		fps = DefaultFPS
	}
	s.mu.Lock()
	s.fps = fps
	s.mu.Unlock()
}

func (s *Scene) SetLoopRange(r hierarchy.FrameRange) error {
	if err := r.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.loop = r
	s.mu.Unlock()
	return nil
}

// AddTake appends an empty take. Take names are unique.
func (s *Scene) AddTake(name string) (*Take, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findTake(name) != nil {
		return nil, errors.Errorf("take %q already exists", name)
	}
	t := NewTake(name)
	s.takes = append(s.takes, t)
	return t, nil
}

// CopyTake duplicates the curves of take src into a new take.
func (s *Scene) CopyTake(src, name string) (*Take, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	from := s.findTake(src)
	if from == nil {
		return nil, errors.Errorf("take %q not found", src)
	}
	if s.findTake(name) != nil {
		return nil, errors.Errorf("take %q already exists", name)
	}
	t := from.clone(name)
	s.takes = append(s.takes, t)
	return t, nil
}

func (s *Scene) RemoveTake(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.takes {
		if t.Name == name {
			s.takes = append(s.takes[:i], s.takes[i+1:]...)
			if s.active == t {
				s.active = nil
				s.generation++
			}
			return nil
		}
	}
	return errors.Errorf("take %q not found", name)
}

// Snapshot copies the rest poses and takes of s under the scene lock, so the
// copy can be read while keys are written to s. The skeleton is shared.
func (s *Scene) Snapshot() *Scene {
	s.mu.Lock()
	defer s.mu.Unlock()
	ns := &Scene{
		root: s.root,
		rest: make(map[string]Rest, len(s.rest)),
		loop: s.loop,
		fps:  s.fps,
	}
	for joint, r := range s.rest {
		ns.rest[joint] = r
	}
	ns.takes = make([]*Take, len(s.takes))
	for i, t := range s.takes {
		ns.takes[i] = t.clone(t.Name)
	}
	return ns
}

// Take returns the named take. Its curves are not locked, read them from a
// Snapshot while the scene is being keyed.
func (s *Scene) Take(name string) *Take {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findTake(name)
}

func (s *Scene) findTake(name string) *Take {
	for _, t := range s.takes {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// Exclusive runs fn while no other Exclusive call on this scene runs.
func (s *Scene) Exclusive(fn func() error) error {
	s.runs.Lock()
	defer s.runs.Unlock()
	return fn()
}

func (s *Scene) TakeNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, len(s.takes))
	for i, t := range s.takes {
		names[i] = t.Name
	}
	return names
}

func (s *Scene) SelectTake(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.findTake(name)
	if t == nil {
		return errors.Errorf("take %q not found", name)
	}
	s.active = t
	s.generation++
	log.Debugf("[scene] active take %q", name)
	return nil
}

func (s *Scene) ActiveTake() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return ""
	}
	return s.active.Name
}

// Evaluate binds a clip to the active take. The clip fails with
// ErrInactiveTake once another take is selected.
func (s *Scene) Evaluate() (additive.Clip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return nil, ErrNoActiveTake
	}
	return &Clip{scene: s, take: s.active, generation: s.generation}, nil
}

func (s *Scene) FindJoint(name string) (*skeleton.Joint, error) {
	j := s.root.Find(name)
	if j == nil {
		return nil, errors.Errorf("joint %q not found", name)
	}
	return j, nil
}

func (s *Scene) LoopRange() (hierarchy.FrameRange, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loop, s.loop.Validate()
}

func (s *Scene) Notify(title, message string) {
	if s.Notifier != nil {
		s.Notifier(title, message)
		return
	}
	log.Warnf("[scene] %s: %s", title, message)
}

// Clip reads and writes the channels of one take.
type Clip struct {
	scene      *Scene
	take       *Take
	generation uint64
}

func (c *Clip) Take() string { return c.take.Name }

func (c *Clip) check() error {
	s := c.scene
	if s.generation != c.generation || s.active != c.take {
		return errors.Wrapf(ErrInactiveTake, "take %q", c.take.Name)
	}
	return nil
}

func (c *Clip) EvaluateChannel(j *skeleton.Joint, ch skeleton.Channel, axis skeleton.Axis, time float64) (float64, error) {
	c.scene.mu.Lock()
	defer c.scene.mu.Unlock()
	if err := c.check(); err != nil {
		return 0, err
	}
	if cv := c.take.Curve(j.Name, ch, axis); cv != nil {
		if v, ok := cv.Evaluate(time); ok {
			return v, nil
		}
	}
	return c.scene.restOf(j.Name).channel(ch)[axis], nil
}

func (c *Clip) AddKey(j *skeleton.Joint, ch skeleton.Channel, axis skeleton.Axis, time float64, value float64) error {
	c.scene.mu.Lock()
	defer c.scene.mu.Unlock()
	if err := c.check(); err != nil {
		return err
	}
	return c.take.Key(j.Name, ch, axis, time, value)
}
