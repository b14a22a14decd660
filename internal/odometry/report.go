package odometry

import "fmt"

// Measurement is one named value in the sensor's analysis report.
type Measurement struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// Visualizer receives the sensor's current values as human-readable labels.
type Visualizer interface {
	Set(label, value string)
}

// Report produces the fixed, ordered measurement list for the reporting sink:
// the first and the most recent fix plus map-lookup URLs for both. Returns
// nil until the producer has run at least once.
func (s *Sensor) Report() []Measurement {
	s.reportMu.Lock()
	defer s.reportMu.Unlock()
	if !s.haveSample {
		return nil
	}

	start := s.startLoc
	cur := s.lastSample
	return []Measurement{
		{Name: "StartLatitude", Value: start.Latitude},
		{Name: "StartLongitude", Value: start.Longitude},
		{Name: "StartAltitude", Value: start.Altitude},
		{Name: "StartNorthing", Value: start.Northing},
		{Name: "StartEasting", Value: start.Easting},
		{Name: "CurrentLatitude", Value: cur.Latitude},
		{Name: "CurrentLongitude", Value: cur.Longitude},
		{Name: "CurrentAltitude", Value: cur.Altitude},
		{Name: "CurrentNorthing", Value: cur.Northing},
		{Name: "CurrentEasting", Value: cur.Easting},
		{Name: "StartMapURL", Value: mapURL(start.Latitude, start.Longitude)},
		{Name: "CurrentMapURL", Value: mapURL(cur.Latitude, cur.Longitude)},
	}
}

// Visualize pushes the current values to the visualization sink. A nil sink
// is a programming error.
func (s *Sensor) Visualize(v Visualizer) {
	if v == nil {
		panic("odometry: nil visualizer")
	}

	s.reportMu.Lock()
	cur := s.lastSample
	have := s.haveSample
	s.reportMu.Unlock()
	if !have {
		return
	}

	v.Set("Child Frame", cur.ChildFrame)
	v.Set("Ignore Map Origin", fmt.Sprintf("%t", cur.IgnoreMapOrigin))
	v.Set("Latitude", fmt.Sprintf("%.6f", cur.Latitude))
	v.Set("Longitude", fmt.Sprintf("%.6f", cur.Longitude))
	v.Set("Altitude", fmt.Sprintf("%.2f", cur.Altitude))
	v.Set("Northing", fmt.Sprintf("%.2f", cur.Northing))
	v.Set("Easting", fmt.Sprintf("%.2f", cur.Easting))
	v.Set("Orientation", fmt.Sprintf("(%.4f, %.4f, %.4f, %.4f)",
		cur.Orientation.X, cur.Orientation.Y, cur.Orientation.Z, cur.Orientation.W))
	v.Set("Forward Speed", fmt.Sprintf("%.3f m/s", cur.ForwardSpeed))
	v.Set("Velocity", fmt.Sprintf("(%.3f, %.3f, %.3f) m/s",
		cur.Velocity.X, cur.Velocity.Y, cur.Velocity.Z))
	v.Set("Angular Velocity", fmt.Sprintf("(%.3f, %.3f, %.3f) rad/s",
		cur.AngularVelocity.X, cur.AngularVelocity.Y, cur.AngularVelocity.Z))
}

func mapURL(lat, lon float64) string {
	return fmt.Sprintf("https://www.google.com/maps/search/?api=1&query=%v,%v", lat, lon)
}
