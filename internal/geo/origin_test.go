package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestNewOrigin(t *testing.T) {
	t.Parallel()

	t.Run("accepts a mid-latitude reference", func(t *testing.T) {
		t.Parallel()
		o, err := NewOrigin(37.4124, -121.998, 12.0)
		require.NoError(t, err)
		assert.False(t, o.southern)
		assert.InDelta(t, 500000, o.easting, 200000) // within the zone
		assert.Greater(t, o.northing, 4_000_000.0)
	})

	t.Run("flags southern hemisphere origins", func(t *testing.T) {
		t.Parallel()
		o, err := NewOrigin(-33.8688, 151.2093, 0)
		require.NoError(t, err)
		assert.True(t, o.southern)
		assert.Greater(t, o.northing, falseNorthing-4_000_000.0)
	})

	t.Run("rejects out-of-range references", func(t *testing.T) {
		t.Parallel()
		_, err := NewOrigin(87.0, 10.0, 0)
		require.Error(t, err)
		_, err = NewOrigin(45.0, 190.0, 0)
		require.Error(t, err)
	})
}

func TestLocationOriginRelative(t *testing.T) {
	t.Parallel()

	origin, err := NewOrigin(37.4124, -121.998, 12.0)
	require.NoError(t, err)

	t.Run("zero position lands on the origin", func(t *testing.T) {
		t.Parallel()
		loc := origin.Location(r3.Vec{}, false)
		assert.InDelta(t, origin.Latitude, loc.Latitude, 1e-6)
		assert.InDelta(t, origin.Longitude, loc.Longitude, 1e-6)
		assert.InDelta(t, 12.0, loc.Altitude, 1e-9)
		assert.InDelta(t, origin.easting, loc.Easting, 1e-9)
		assert.InDelta(t, origin.northing, loc.Northing, 1e-9)
	})

	t.Run("x offsets easting, z offsets northing, y offsets altitude", func(t *testing.T) {
		t.Parallel()
		loc := origin.Location(r3.Vec{X: 100, Y: 5, Z: 200}, false)
		assert.InDelta(t, origin.easting+100, loc.Easting, 1e-9)
		assert.InDelta(t, origin.northing+200, loc.Northing, 1e-9)
		assert.InDelta(t, 17.0, loc.Altitude, 1e-9)
		assert.Greater(t, loc.Latitude, origin.Latitude)   // north
		assert.Greater(t, loc.Longitude, origin.Longitude) // east
	})

	t.Run("projection round-trips within a meter-scale map", func(t *testing.T) {
		t.Parallel()
		for _, pos := range []r3.Vec{
			{X: 1500, Z: -2300},
			{X: -800, Z: 450},
			{X: 0.25, Z: 0.75},
		} {
			loc := origin.Location(pos, false)
			n, e := latLonToNorthingEasting(loc.Latitude, loc.Longitude, origin.centralMeridian, origin.southern)
			assert.InDelta(t, loc.Northing, n, 1e-3)
			assert.InDelta(t, loc.Easting, e, 1e-3)
		}
	})

	t.Run("southern origin round-trips", func(t *testing.T) {
		t.Parallel()
		sydney, err := NewOrigin(-33.8688, 151.2093, 3.0)
		require.NoError(t, err)

		loc := sydney.Location(r3.Vec{X: 50, Z: -75}, false)
		assert.Less(t, loc.Latitude, 0.0)
		n, e := latLonToNorthingEasting(loc.Latitude, loc.Longitude, sydney.centralMeridian, true)
		assert.InDelta(t, loc.Northing, n, 1e-3)
		assert.InDelta(t, loc.Easting, e, 1e-3)
	})
}

func TestLocationIgnoreOrigin(t *testing.T) {
	t.Parallel()

	origin, err := NewOrigin(37.4124, -121.998, 12.0)
	require.NoError(t, err)

	t.Run("reports the raw map frame", func(t *testing.T) {
		t.Parallel()
		loc := origin.Location(r3.Vec{X: 120, Y: 8, Z: 340}, true)
		assert.InDelta(t, 120.0, loc.Easting, 1e-9)
		assert.InDelta(t, 340.0, loc.Northing, 1e-9)
		assert.InDelta(t, 8.0, loc.Altitude, 1e-9)
	})

	t.Run("zero position sits on the equator at the central meridian", func(t *testing.T) {
		t.Parallel()
		loc := origin.Location(r3.Vec{}, true)
		assert.InDelta(t, 0.0, loc.Latitude, 1e-6)
		assert.InDelta(t, -123.0, loc.Longitude, 1e-6) // zone 10 meridian
	})
}

func TestCentralMeridian(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, -123.0, centralMeridian(-121.998)/deg, 1e-12) // zone 10
	assert.InDelta(t, 153.0, centralMeridian(151.2093)/deg, 1e-12)  // zone 56
	assert.InDelta(t, 177.0, centralMeridian(180.0)/deg, 1e-12)     // wraps into zone 60
}
