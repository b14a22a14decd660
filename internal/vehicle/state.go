package vehicle

import (
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// State is one snapshot of the vehicle in the host simulator's native frame:
// left-handed, y up, z forward, x right. All values come straight from the
// physics engine; nothing here is converted.
type State struct {
	Position        r3.Vec      // meters, world space
	Rotation        quat.Number // world-space orientation, native handedness
	Velocity        r3.Vec      // m/s, world space
	AngularVelocity r3.Vec      // rad/s, native handedness
	WheelAngle      float64     // radians, front wheel steering angle
	SimTime         float64     // seconds since simulation start
}

// Source provides the current vehicle state. The physics engine owns the
// state; implementations must be cheap to call once per fixed step.
type Source interface {
	State() State
}
