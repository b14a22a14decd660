package odometry

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

// mapVisualizer collects labels for inspection.
type mapVisualizer struct {
	values map[string]string
}

func (m *mapVisualizer) Set(label, value string) {
	if m.values == nil {
		m.values = map[string]string{}
	}
	m.values[label] = value
}

func TestReport(t *testing.T) {
	t.Parallel()

	t.Run("nil before the first sample", func(t *testing.T) {
		t.Parallel()
		s, _, _, _ := newTestSensor(t, Config{Frequency: 10})
		assert.Nil(t, s.Report())
	})

	t.Run("fixed order, start fix pinned to the first sample", func(t *testing.T) {
		t.Parallel()
		s, src, _, _ := newTestSensor(t, Config{Frequency: 10})
		s.OnPhysicsStep()

		src.mu.Lock()
		src.st.Position = r3.Vec{X: 300, Z: 400}
		src.st.SimTime = 2.0
		src.mu.Unlock()
		s.OnPhysicsStep()

		report := s.Report()
		require.Len(t, report, 12)

		names := make([]string, len(report))
		for i, m := range report {
			names[i] = m.Name
		}
		assert.Equal(t, []string{
			"StartLatitude", "StartLongitude", "StartAltitude",
			"StartNorthing", "StartEasting",
			"CurrentLatitude", "CurrentLongitude", "CurrentAltitude",
			"CurrentNorthing", "CurrentEasting",
			"StartMapURL", "CurrentMapURL",
		}, names)

		startNorthing := report[3].Value.(float64)
		curNorthing := report[8].Value.(float64)
		assert.InDelta(t, 400.0, curNorthing-startNorthing, 1e-9)

		startLat := report[0].Value.(float64)
		startLon := report[1].Value.(float64)
		assert.Equal(t,
			fmt.Sprintf("https://www.google.com/maps/search/?api=1&query=%v,%v", startLat, startLon),
			report[10].Value)
		assert.Contains(t, report[11].Value.(string), "https://www.google.com/maps/search/?api=1&query=")
	})
}

func TestVisualize(t *testing.T) {
	t.Parallel()

	t.Run("nil sink panics", func(t *testing.T) {
		t.Parallel()
		s, _, _, _ := newTestSensor(t, Config{Frequency: 10})
		assert.Panics(t, func() { s.Visualize(nil) })
	})

	t.Run("no sample yet sets nothing", func(t *testing.T) {
		t.Parallel()
		s, _, _, _ := newTestSensor(t, Config{Frequency: 10})
		sink := &mapVisualizer{}
		s.Visualize(sink)
		assert.Empty(t, sink.values)
	})

	t.Run("labels carry the current values", func(t *testing.T) {
		t.Parallel()
		s, src, _, _ := newTestSensor(t, Config{ChildFrame: "base_link", Frequency: 10})
		src.mu.Lock()
		src.st.Velocity = r3.Vec{Z: 4}
		src.mu.Unlock()
		s.OnPhysicsStep()

		sink := &mapVisualizer{}
		s.Visualize(sink)

		for _, label := range []string{
			"Child Frame", "Ignore Map Origin",
			"Latitude", "Longitude", "Altitude", "Northing", "Easting",
			"Orientation", "Forward Speed", "Velocity", "Angular Velocity",
		} {
			assert.Contains(t, sink.values, label)
		}
		assert.Equal(t, "base_link", sink.values["Child Frame"])
		assert.Equal(t, "false", sink.values["Ignore Map Origin"])
		assert.Equal(t, "4.000 m/s", sink.values["Forward Speed"])
	})
}
