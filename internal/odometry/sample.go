package odometry

import (
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/relabs-tech/vehicle_odometry/internal/vehicle"
)

// Vector3 is a JSON-friendly three-component vector.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Quaternion is a JSON-friendly orientation quaternion, scalar part last.
type Quaternion struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

// Sample is one immutable odometry measurement, built by the producer each
// physics step and published over the bridge as JSON.
type Sample struct {
	Name            string     `json:"name"`
	Frame           string     `json:"frame"`
	Time            float64    `json:"time"` // simulation seconds
	Sequence        uint64     `json:"sequence"`
	ChildFrame      string     `json:"child_frame"`
	IgnoreMapOrigin bool       `json:"ignore_map_origin"`
	Latitude        float64    `json:"latitude"`
	Longitude       float64    `json:"longitude"`
	Altitude        float64    `json:"altitude"`
	Northing        float64    `json:"northing"`
	Easting         float64    `json:"easting"`
	Orientation     Quaternion `json:"orientation"`      // right-handed
	ForwardSpeed    float64    `json:"forward_speed"`    // m/s
	Velocity        Vector3    `json:"velocity"`         // m/s, host frame
	AngularVelocity Vector3    `json:"angular_velocity"` // rad/s, right-handed
	WheelAngle      float64    `json:"wheel_angle"`      // radians
}

// rightHandedVec maps a vector from the host's native handedness to the
// right-handed convention: (x, y, z) -> (-z, x, -y).
func rightHandedVec(v r3.Vec) Vector3 {
	return Vector3{X: -v.Z, Y: v.X, Z: -v.Y}
}

// rightHandedQuat applies the same component permutation to a quaternion,
// preserving the scalar part: (x, y, z, w) -> (-z, x, -y, w).
func rightHandedQuat(q quat.Number) Quaternion {
	return Quaternion{X: -q.Kmag, Y: q.Imag, Z: -q.Jmag, W: q.Real}
}

// hostForward is the native forward axis of the host simulator.
var hostForward = r3.Vec{Z: 1}

// forwardSpeed projects the host-frame velocity onto the vehicle's forward
// axis, i.e. the native forward unit vector rotated by the host orientation.
func forwardSpeed(st vehicle.State) float64 {
	fwd := rotateVec(st.Rotation, hostForward)
	n := r3.Norm(fwd)
	if n == 0 {
		return 0
	}
	return r3.Dot(st.Velocity, fwd) / n
}

// rotateVec rotates v by q (p = q v q^-1). A zero quaternion is treated as
// the identity rotation.
func rotateVec(q quat.Number, v r3.Vec) r3.Vec {
	if q == (quat.Number{}) {
		return v
	}
	p := quat.Mul(quat.Mul(q, quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}), quat.Inv(q))
	return r3.Vec{X: p.Imag, Y: p.Jmag, Z: p.Kmag}
}
