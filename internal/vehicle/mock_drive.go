// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package vehicle

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// MockDrive simulates a vehicle driving a circle around the map origin at
// constant speed. It stands in for the physics engine: the host harness calls
// Step once per fixed physics step and the sensor reads State.
type MockDrive struct {
	mu      sync.Mutex
	radius  float64 // meters
	speed   float64 // m/s
	simTime float64
}

// NewMockDrive creates a mock vehicle on a 120 m circle at 10 m/s.
func NewMockDrive() *MockDrive {
	return &MockDrive{radius: 120, speed: 10}
}

// Step advances the simulated drive by dt seconds.
func (m *MockDrive) Step(dt float64) {
	m.mu.Lock()
	m.simTime += dt
	m.mu.Unlock()
}

// State returns the vehicle state for the current simulation time.
func (m *MockDrive) State() State {
	m.mu.Lock()
	t := m.simTime
	m.mu.Unlock()

	omega := m.speed / m.radius // rad/s around the circle
	theta := omega * t

	// Counter-clockwise circle in the ground plane (x east, z north).
	pos := r3.Vec{
		X: m.radius * math.Cos(theta),
		Y: 0.5, // axle height
		Z: m.radius * math.Sin(theta),
	}
	vel := r3.Vec{
		X: -m.speed * math.Sin(theta),
		Z: m.speed * math.Cos(theta),
	}

	// Heading follows the velocity direction: yaw about the native up axis,
	// measured from the native forward axis (z).
	yaw := math.Atan2(vel.X, vel.Z)
	rot := quat.Number{
		Real: math.Cos(yaw / 2),
		Jmag: math.Sin(yaw / 2),
	}

	return State{
		Position:        pos,
		Rotation:        rot,
		Velocity:        vel,
		AngularVelocity: r3.Vec{Y: omega},
		WheelAngle:      math.Atan(2.8 / m.radius), // bicycle model, 2.8 m wheelbase
		SimTime:         t,
	}
}
