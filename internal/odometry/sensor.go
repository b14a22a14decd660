package odometry

import (
	"log"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/relabs-tech/vehicle_odometry/internal/geo"
	"github.com/relabs-tech/vehicle_odometry/internal/vehicle"
)

// Publish frequency bounds, Hz.
const (
	MinFrequency = 1.0
	MaxFrequency = 100.0
)

// DefaultQueueDepth bounds the pending-sample backlog between render-frame
// flushes; the oldest entry is dropped when it is exceeded.
const DefaultQueueDepth = 128

// Transport is the message bridge the sensor publishes to. The connection may
// come and go; Connected is re-checked right before every emit.
type Transport interface {
	Connected() bool
	Emit(Sample) error
}

// Config is the sensor's static configuration, set once before Init.
type Config struct {
	Name            string
	Frame           string
	ChildFrame      string
	IgnoreMapOrigin bool
	Frequency       float64 // publish rate, clamped to [MinFrequency, MaxFrequency]
	QueueDepth      int     // 0 uses DefaultQueueDepth, negative means unbounded
}

// publisherState is the loop-owned state the producer also reads: the
// production timestamp of the last executed entry.
type publisherState struct {
	mu           sync.Mutex
	lastExecuted float64
}

func (p *publisherState) get() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastExecuted
}

func (p *publisherState) set(t float64) {
	p.mu.Lock()
	p.lastExecuted = t
	p.mu.Unlock()
}

// Sensor samples the vehicle once per fixed physics step and publishes
// odometry at a bounded rate, decoupling the physics cadence from the
// transport. OnPhysicsStep and OnFrameBoundary are driven by the host;
// publishing runs on its own goroutine between Init and Teardown.
type Sensor struct {
	cfg       Config
	origin    *geo.Origin
	source    vehicle.Source
	transport Transport

	queue      *sampleQueue
	seq        uint64
	frameReset atomic.Bool
	destroyed  atomic.Bool
	startOnce  sync.Once

	state publisherState

	// report/visualization snapshot, written by the producer
	reportMu   sync.Mutex
	startLoc   geo.Location
	haveStart  bool
	lastSample Sample
	haveSample bool

	// scheduling hooks, swapped out in tests
	now   func() time.Time
	yield func()
}

// NewSensor wires the sensor to its collaborators. A nil origin or transport
// is tolerated: every physics step is silently skipped until both exist.
func NewSensor(cfg Config, origin *geo.Origin, source vehicle.Source, transport Transport) *Sensor {
	if cfg.Frequency < MinFrequency {
		cfg.Frequency = MinFrequency
	} else if cfg.Frequency > MaxFrequency {
		cfg.Frequency = MaxFrequency
	}
	depth := cfg.QueueDepth
	switch {
	case depth == 0:
		depth = DefaultQueueDepth
	case depth < 0:
		depth = 0 // unbounded
	}

	return &Sensor{
		cfg:       cfg,
		origin:    origin,
		source:    source,
		transport: transport,
		queue:     newSampleQueue(depth),
		now:       time.Now,
		yield:     runtime.Gosched,
	}
}

// Init starts the publish loop. Safe to call more than once.
func (s *Sensor) Init() {
	s.startOnce.Do(func() {
		go s.publishLoop()
	})
}

// Teardown stops the publish loop after its current iteration.
func (s *Sensor) Teardown() {
	s.destroyed.Store(true)
}

// OnFrameBoundary marks the render-frame boundary. The next producer step
// flushes any backlog so stale samples never survive a pause or scrub.
func (s *Sensor) OnFrameBoundary() {
	s.frameReset.Store(true)
}

// OnPhysicsStep runs the sample producer once. All preconditions are soft:
// a missing collaborator, a disconnected transport or stale simulation time
// skip the step without side effects.
func (s *Sensor) OnPhysicsStep() {
	if s.origin == nil || s.transport == nil || !s.transport.Connected() {
		return
	}

	// At most one flush per rendered frame, however many physics sub-steps
	// land inside it.
	if s.frameReset.CompareAndSwap(true, false) {
		s.queue.clear()
	}

	st := s.source.State()
	if st.SimTime < s.state.get() {
		return // stale step, e.g. replayed after a seek
	}

	loc := s.origin.Location(st.Position, s.cfg.IgnoreMapOrigin)

	sample := Sample{
		Name:            s.cfg.Name,
		Frame:           s.cfg.Frame,
		Time:            st.SimTime,
		Sequence:        s.seq,
		ChildFrame:      s.cfg.ChildFrame,
		IgnoreMapOrigin: s.cfg.IgnoreMapOrigin,
		Latitude:        loc.Latitude,
		Longitude:       loc.Longitude,
		Altitude:        loc.Altitude,
		Northing:        loc.Northing,
		Easting:         loc.Easting,
		Orientation:     rightHandedQuat(st.Rotation),
		ForwardSpeed:    forwardSpeed(st),
		Velocity:        Vector3{X: st.Velocity.X, Y: st.Velocity.Y, Z: st.Velocity.Z},
		AngularVelocity: rightHandedVec(st.AngularVelocity),
		WheelAngle:      st.WheelAngle,
	}
	s.seq++

	s.reportMu.Lock()
	if !s.haveStart {
		s.startLoc = loc
		s.haveStart = true
	}
	s.lastSample = sample
	s.haveSample = true
	s.reportMu.Unlock()

	s.queue.push(entry{timestamp: st.SimTime, sample: sample})
}

// publishLoop drains the queue at the configured rate until Teardown. The
// wait is a busy-poll with a cooperative yield rather than a timed sleep, so
// publish jitter stays below OS sleep granularity.
func (s *Sensor) publishLoop() {
	interval := time.Duration(float64(time.Second) / s.cfg.Frequency)
	deadline := s.now()
	for !s.destroyed.Load() {
		deadline = s.step(deadline, interval)
	}
}

// step runs one publish-loop iteration and returns the next deadline. The
// deadline only advances when an entry was executed; an empty queue retries
// without penalty, so the very next sample goes out immediately.
func (s *Sensor) step(deadline time.Time, interval time.Duration) time.Time {
	if s.now().Before(deadline) {
		s.yield()
		return deadline
	}
	e, ok := s.queue.pop()
	if !ok {
		s.yield()
		return deadline
	}

	s.dispatch(e.sample)

	// Advance even when the emit failed: temporal ordering against the
	// producer's staleness check must hold regardless.
	s.state.set(e.timestamp)
	return s.now().Add(interval)
}

// dispatch emits one sample, re-checking connectivity first: the transport
// may have dropped between enqueue and dequeue. Failures are logged and
// contained; one bad emit must not stop the loop from draining later entries.
func (s *Sensor) dispatch(sample Sample) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("odometry: publish panic (seq %d): %v", sample.Sequence, r)
		}
	}()

	if !s.transport.Connected() {
		return
	}
	if err := s.transport.Emit(sample); err != nil {
		log.Printf("odometry: publish error (seq %d): %v", sample.Sequence, err)
	}
}
