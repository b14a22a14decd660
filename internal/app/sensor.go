package app

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/relabs-tech/vehicle_odometry/internal/bridge"
	"github.com/relabs-tech/vehicle_odometry/internal/config"
	"github.com/relabs-tech/vehicle_odometry/internal/geo"
	"github.com/relabs-tech/vehicle_odometry/internal/odometry"
	"github.com/relabs-tech/vehicle_odometry/internal/vehicle"
)

// RunSensor hosts the simulated vehicle and its GPS-odometry sensor: a fixed
// physics ticker drives the sample producer, a coarser frame ticker marks
// render boundaries, and the sensor's own publish loop drains to MQTT.
func RunSensor() error {
	cfg := config.Get()

	origin, err := geo.NewOrigin(cfg.OriginLatitude, cfg.OriginLongitude, cfg.OriginAltitude)
	if err != nil {
		return fmt.Errorf("map origin: %w", err)
	}

	transport, err := bridge.Dial(cfg.MQTTBroker, cfg.MQTTClientIDSensor, cfg.TopicOdometry)
	if err != nil {
		return err
	}
	defer transport.Close()

	drive := vehicle.NewMockDrive()
	sensor := odometry.NewSensor(odometry.Config{
		Name:            cfg.SensorName,
		Frame:           cfg.FrameID,
		ChildFrame:      cfg.ChildFrame,
		IgnoreMapOrigin: cfg.IgnoreMapOrigin,
		Frequency:       cfg.PublishFrequencyHz,
		QueueDepth:      cfg.QueueMaxDepth,
	}, origin, drive, transport)

	sensor.Init()
	defer sensor.Teardown()

	stepSeconds := float64(cfg.PhysicsStepInterval) / 1000.0
	physics := time.NewTicker(time.Duration(cfg.PhysicsStepInterval) * time.Millisecond)
	defer physics.Stop()
	frames := time.NewTicker(time.Duration(cfg.FrameInterval) * time.Millisecond)
	defer frames.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	log.Printf("sensor: %s publishing to %s at %.1f Hz (physics step %d ms, frame %d ms)",
		cfg.SensorName, cfg.TopicOdometry, cfg.PublishFrequencyHz,
		cfg.PhysicsStepInterval, cfg.FrameInterval)

	for {
		select {
		case <-physics.C:
			drive.Step(stepSeconds)
			sensor.OnPhysicsStep()
		case <-frames.C:
			sensor.OnFrameBoundary()
		case <-sigCh:
			log.Println("sensor: shutting down")
			for _, m := range sensor.Report() {
				log.Printf("sensor: %s = %v", m.Name, m.Value)
			}
			return nil
		}
	}
}
