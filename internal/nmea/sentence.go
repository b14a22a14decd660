// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package nmea renders odometry samples as NMEA 0183 sentences so the
// simulated sensor can feed tools that expect a real GPS receiver.
package nmea

import (
	"fmt"
	"math"
	"time"

	"github.com/relabs-tech/vehicle_odometry/internal/odometry"
)

const knotsPerMeterPerSecond = 1.9438444924406048

// RMC renders a GPRMC (recommended minimum) sentence for the sample. The
// wall-clock time stamps the sentence; simulation time has no UTC meaning.
func RMC(s odometry.Sample, at time.Time) string {
	at = at.UTC()
	latField, latHemi := latDM(s.Latitude)
	lonField, lonHemi := lonDM(s.Longitude)

	body := fmt.Sprintf("GPRMC,%s,A,%s,%s,%s,%s,%.2f,%.2f,%s,,,A",
		at.Format("150405.00"),
		latField, latHemi, lonField, lonHemi,
		groundSpeedKnots(s), courseOverGround(s),
		at.Format("020106"),
	)
	return wrap(body)
}

// GGA renders a GPGGA (fix data) sentence for the sample.
func GGA(s odometry.Sample, at time.Time) string {
	at = at.UTC()
	latField, latHemi := latDM(s.Latitude)
	lonField, lonHemi := lonDM(s.Longitude)

	body := fmt.Sprintf("GPGGA,%s,%s,%s,%s,%s,1,08,0.9,%.1f,M,0.0,M,,",
		at.Format("150405.00"),
		latField, latHemi, lonField, lonHemi,
		s.Altitude,
	)
	return wrap(body)
}

// groundSpeedKnots is the horizontal speed over ground in knots.
func groundSpeedKnots(s odometry.Sample) float64 {
	return math.Hypot(s.Velocity.X, s.Velocity.Z) * knotsPerMeterPerSecond
}

// courseOverGround is the track in degrees clockwise from true north, derived
// from the host-frame velocity (x east, z north).
func courseOverGround(s odometry.Sample) float64 {
	if s.Velocity.X == 0 && s.Velocity.Z == 0 {
		return 0
	}
	deg := math.Atan2(s.Velocity.X, s.Velocity.Z) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	return deg
}

// latDM formats a latitude as ddmm.mmmm plus hemisphere.
func latDM(lat float64) (string, string) {
	hemi := "N"
	if lat < 0 {
		hemi = "S"
		lat = -lat
	}
	d := math.Floor(lat)
	return fmt.Sprintf("%02.0f%07.4f", d, (lat-d)*60), hemi
}

// lonDM formats a longitude as dddmm.mmmm plus hemisphere.
func lonDM(lon float64) (string, string) {
	hemi := "E"
	if lon < 0 {
		hemi = "W"
		lon = -lon
	}
	d := math.Floor(lon)
	return fmt.Sprintf("%03.0f%07.4f", d, (lon-d)*60), hemi
}

// wrap adds the leading $ and the NMEA checksum.
func wrap(body string) string {
	var sum byte
	for i := 0; i < len(body); i++ {
		sum ^= body[i]
	}
	return fmt.Sprintf("$%s*%02X", body, sum)
}
