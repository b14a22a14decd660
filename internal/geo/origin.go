package geo

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Location is a single geodetic fix derived from a world-space position.
type Location struct {
	Latitude  float64 `json:"latitude"`  // decimal degrees
	Longitude float64 `json:"longitude"` // decimal degrees
	Altitude  float64 `json:"altitude"`  // meters
	Northing  float64 `json:"northing"`  // meters
	Easting   float64 `json:"easting"`   // meters
}

// Origin anchors the simulated world to a geodetic reference point.
// The world frame is y-up with x pointing east and z pointing north, so a
// position offsets the origin's UTM easting/northing/altitude directly.
type Origin struct {
	Latitude  float64
	Longitude float64
	Altitude  float64

	northing        float64 // UTM northing of the origin, false northing included
	easting         float64 // UTM easting of the origin
	centralMeridian float64 // radians, fixed by the origin's UTM zone
	southern        bool
}

// NewOrigin builds a map origin at the given geodetic reference point.
func NewOrigin(latitude, longitude, altitude float64) (*Origin, error) {
	if latitude < -80 || latitude > 84 {
		return nil, fmt.Errorf("origin latitude %.6f outside UTM range [-80, 84]", latitude)
	}
	if longitude < -180 || longitude > 180 {
		return nil, fmt.Errorf("origin longitude %.6f outside range [-180, 180]", longitude)
	}

	o := &Origin{
		Latitude:        latitude,
		Longitude:       longitude,
		Altitude:        altitude,
		centralMeridian: centralMeridian(longitude),
		southern:        latitude < 0,
	}
	o.northing, o.easting = latLonToNorthingEasting(latitude, longitude, o.centralMeridian, o.southern)
	return o, nil
}

// Location converts a world-space position to a geodetic fix.
//
// With ignoreOrigin false the position offsets the origin's UTM coordinates.
// With ignoreOrigin true the map frame itself is reported as northing/easting
// and latitude/longitude are derived as if the origin sat on the equator at
// the zone's central meridian.
func (o *Origin) Location(position r3.Vec, ignoreOrigin bool) Location {
	if ignoreOrigin {
		lat, lon := northingEastingToLatLon(position.Z, falseEasting+position.X, o.centralMeridian, false)
		return Location{
			Latitude:  lat,
			Longitude: lon,
			Altitude:  position.Y,
			Northing:  position.Z,
			Easting:   position.X,
		}
	}

	northing := o.northing + position.Z
	easting := o.easting + position.X
	lat, lon := northingEastingToLatLon(northing, easting, o.centralMeridian, o.southern)
	return Location{
		Latitude:  lat,
		Longitude: lon,
		Altitude:  o.Altitude + position.Y,
		Northing:  northing,
		Easting:   easting,
	}
}

// centralMeridian returns the central meridian (radians) of the UTM zone
// containing the given longitude.
func centralMeridian(longitude float64) float64 {
	zone := math.Floor((longitude+180)/6) + 1
	if zone > 60 {
		zone = 60 // longitude exactly +180 wraps into zone 60
	}
	lonDeg := (zone-1)*6 - 180 + 3
	return lonDeg * math.Pi / 180
}
