package simulation

import (
	"io"
	"math"
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/forcegraph/pkg/eventloop"
)

// Defaults for the cooling schedule.
const (
	DefaultAlphaMin      = 0.001
	DefaultVelocityDecay = 0.4
	DefaultMaxSteps      = 600
	DefaultSeed          = uint64(42)

	initialRadius = 10.0
)

// DefaultAlphaDecay cools alpha from 1 to DefaultAlphaMin in about 300 steps.
var DefaultAlphaDecay = 1 - math.Pow(DefaultAlphaMin, 1.0/300)

var initialAngle = math.Pi * (3 - math.Sqrt(5))

// Force adds to node velocities once per step.
type Force interface {
	// Initialize is called when the force is registered and whenever the
	// simulation's nodes change.
	Initialize(nodes []*Node, rng *rand.Rand)
	// Apply adds this force's contribution, scaled by alpha.
	Apply(alpha float64)
}

// EndReason tells OnEnd listeners why the timer stopped.
type EndReason string

const (
	// EndCooled means alpha fell below alphaMin.
	EndCooled EndReason = "cooled"
	// EndStepCap means the safety cap on steps was reached while cooling.
	EndStepCap EndReason = "step_cap"
)

type namedForce struct {
	name  string
	force Force
}

// Simulation advances node positions under a set of forces.
type Simulation struct {
	id     string
	nodes  []*Node
	forces []namedForce
	rng    *rand.Rand
	logger *log.Logger

	alpha         float64
	alphaMin      float64
	alphaDecay    float64
	alphaTarget   float64
	velocityDecay float64

	maxSteps int
	steps    int // since the last restart or target change
	total    int

	sched eventloop.Scheduler
	stop  func()

	tick listeners[struct{}]
	end  listeners[EndReason]
}

// Option configures a Simulation.
type Option func(*Simulation)

// WithScheduler drives the simulation from the given scheduler. The timer
// starts as soon as New returns.
func WithScheduler(s eventloop.Scheduler) Option {
	return func(sim *Simulation) { sim.sched = s }
}

// WithAlphaMin sets the threshold below which the timer stops.
func WithAlphaMin(v float64) Option {
	return func(sim *Simulation) { sim.alphaMin = v }
}

// WithAlphaDecay sets the per-step cooling rate.
func WithAlphaDecay(v float64) Option {
	return func(sim *Simulation) { sim.alphaDecay = v }
}

// WithVelocityDecay sets the fraction of velocity lost per step.
func WithVelocityDecay(v float64) Option {
	return func(sim *Simulation) { sim.velocityDecay = v }
}

// WithMaxSteps caps the steps taken while cooling. Zero disables the cap.
func WithMaxSteps(n int) Option {
	return func(sim *Simulation) { sim.maxSteps = n }
}

// WithSeed seeds the jitter generator.
func WithSeed(seed uint64) Option {
	return func(sim *Simulation) { sim.rng = rand.New(rand.NewPCG(seed, seed)) }
}

// WithLogger sets the logger used for lifecycle messages.
func WithLogger(l *log.Logger) Option {
	return func(sim *Simulation) {
		if l != nil {
			sim.logger = l
		}
	}
}

// New creates a simulation over nodes. Nodes whose position is NaN are
// placed on a phyllotaxis spiral by index.
func New(nodes []*Node, opts ...Option) *Simulation {
	s := &Simulation{
		id:            uuid.NewString(),
		alpha:         1,
		alphaMin:      DefaultAlphaMin,
		alphaDecay:    DefaultAlphaDecay,
		velocityDecay: DefaultVelocityDecay,
		maxSteps:      DefaultMaxSteps,
		logger:        log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(DefaultSeed, DefaultSeed))
	}

	s.nodes = nodes
	s.initializeNodes()

	if s.sched != nil {
		s.Restart()
	}
	return s
}

// ID identifies this simulation instance in logs and metrics.
func (s *Simulation) ID() string { return s.id }

// Nodes returns the simulated nodes.
func (s *Simulation) Nodes() []*Node { return s.nodes }

// SetNodes replaces the node set and re-initializes every force.
func (s *Simulation) SetNodes(nodes []*Node) *Simulation {
	s.nodes = nodes
	s.initializeNodes()
	for _, f := range s.forces {
		f.force.Initialize(s.nodes, s.rng)
	}
	return s
}

func (s *Simulation) initializeNodes() {
	for i, n := range s.nodes {
		n.Index = i
		if n.Fixed {
			n.X, n.Y = n.FX, n.FY
		}
		if math.IsNaN(n.X) || math.IsNaN(n.Y) {
			radius := initialRadius * math.Sqrt(0.5+float64(i))
			angle := float64(i) * initialAngle
			n.X = radius * math.Cos(angle)
			n.Y = radius * math.Sin(angle)
		}
		if math.IsNaN(n.VX) || math.IsNaN(n.VY) {
			n.VX, n.VY = 0, 0
		}
	}
}

// =============================================================================
// Forces
// =============================================================================

// AddForce registers f under name, replacing any force with the same name
// while keeping its position in the application order.
func (s *Simulation) AddForce(name string, f Force) *Simulation {
	f.Initialize(s.nodes, s.rng)
	for i := range s.forces {
		if s.forces[i].name == name {
			s.forces[i].force = f
			return s
		}
	}
	s.forces = append(s.forces, namedForce{name: name, force: f})
	return s
}

// RemoveForce unregisters the named force.
func (s *Simulation) RemoveForce(name string) *Simulation {
	for i := range s.forces {
		if s.forces[i].name == name {
			s.forces = append(s.forces[:i], s.forces[i+1:]...)
			break
		}
	}
	return s
}

// Force returns the named force, or nil.
func (s *Simulation) Force(name string) Force {
	for _, f := range s.forces {
		if f.name == name {
			return f.force
		}
	}
	return nil
}

// ForceNames lists registered forces in application order.
func (s *Simulation) ForceNames() []string {
	names := make([]string, len(s.forces))
	for i, f := range s.forces {
		names[i] = f.name
	}
	return names
}

// =============================================================================
// Cooling
// =============================================================================

// Alpha returns the current energy.
func (s *Simulation) Alpha() float64 { return s.alpha }

// SetAlpha sets the current energy.
func (s *Simulation) SetAlpha(a float64) *Simulation {
	s.alpha = a
	return s
}

// AlphaMin returns the stop threshold.
func (s *Simulation) AlphaMin() float64 { return s.alphaMin }

// AlphaTarget returns the value alpha decays toward.
func (s *Simulation) AlphaTarget() float64 { return s.alphaTarget }

// SetAlphaTarget sets the value alpha decays toward. A target above alphaMin
// keeps the simulation running until it is lowered again.
func (s *Simulation) SetAlphaTarget(t float64) *Simulation {
	s.alphaTarget = t
	s.steps = 0
	return s
}

// Steps returns the total number of steps taken.
func (s *Simulation) Steps() int { return s.total }

func (s *Simulation) cooling() bool { return s.alphaTarget < s.alphaMin }

// =============================================================================
// Stepping
// =============================================================================

// Tick advances the simulation n steps synchronously. Listeners are not
// notified and the timer is unaffected.
func (s *Simulation) Tick(n int) *Simulation {
	for range n {
		s.step()
	}
	return s
}

func (s *Simulation) step() {
	s.alpha += (s.alphaTarget - s.alpha) * s.alphaDecay

	for _, f := range s.forces {
		f.force.Apply(s.alpha)
	}

	keep := 1 - s.velocityDecay
	for _, n := range s.nodes {
		if n.Fixed {
			n.X, n.VX = n.FX, 0
			n.Y, n.VY = n.FY, 0
			continue
		}
		n.VX *= keep
		n.VY *= keep
		n.X += n.VX
		n.Y += n.VY
	}
	s.total++
	s.steps++
}

// frame is the scheduler callback.
func (s *Simulation) frame() {
	s.step()
	s.tick.emit(struct{}{})

	// A tick listener may have stopped us.
	if s.stop == nil {
		return
	}

	switch {
	case s.alpha < s.alphaMin:
		s.finish(EndCooled)
	case s.maxSteps > 0 && s.cooling() && s.steps >= s.maxSteps:
		s.finish(EndStepCap)
	}
}

func (s *Simulation) finish(reason EndReason) {
	s.Stop()
	s.logger.Debug("simulation ended", "id", s.id, "reason", reason, "steps", s.total, "alpha", s.alpha)
	s.end.emit(reason)
}

// Restart registers the timer if it is not running. Without a scheduler it
// only resets the safety cap.
func (s *Simulation) Restart() *Simulation {
	s.steps = 0
	if s.stop == nil && s.sched != nil {
		s.stop = s.sched.Start(s.frame)
	}
	return s
}

// Stop unregisters the timer. No further tick or end notifications are
// delivered until Restart.
func (s *Simulation) Stop() *Simulation {
	if s.stop != nil {
		s.stop()
		s.stop = nil
	}
	return s
}

// Active reports whether the timer is running.
func (s *Simulation) Active() bool { return s.stop != nil }

// =============================================================================
// Listeners
// =============================================================================

// OnTick registers fn to run after every timer-driven step. The returned
// function unregisters it.
func (s *Simulation) OnTick(fn func()) (cancel func()) {
	return s.tick.add(func(struct{}) { fn() })
}

// OnEnd registers fn to run when the timer stops on its own.
func (s *Simulation) OnEnd(fn func(EndReason)) (cancel func()) {
	return s.end.add(fn)
}

// Listeners returns the number of registered tick and end listeners.
func (s *Simulation) Listeners() (tick, end int) {
	return s.tick.len(), s.end.len()
}

// =============================================================================
// Queries
// =============================================================================

// Find returns the node closest to (x, y) within radius, or nil. A radius of
// zero or less means unbounded.
func (s *Simulation) Find(x, y, radius float64) *Node {
	best := math.Inf(1)
	if radius > 0 {
		best = radius * radius
	}
	var found *Node
	for _, n := range s.nodes {
		dx, dy := x-n.X, y-n.Y
		if d2 := dx*dx + dy*dy; d2 < best {
			best, found = d2, n
		}
	}
	return found
}

// jiggle returns a tiny random offset used to separate coincident points.
func jiggle(rng *rand.Rand) float64 {
	return (rng.Float64() - 0.5) * 1e-6
}
