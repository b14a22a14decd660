package app

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/vehicle_odometry/internal/config"
	"github.com/relabs-tech/vehicle_odometry/internal/odometry"
)

// RunConsole subscribes to the odometry topic and prints each sample.
func RunConsole() error {
	cfg := config.Get()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDConsole)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	token := client.Subscribe(cfg.TopicOdometry, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var s odometry.Sample
		if err := json.Unmarshal(msg.Payload(), &s); err != nil {
			log.Printf("console: sample unmarshal error: %v", err)
			return
		}

		fmt.Printf(
			"[ODOM] seq=%6d t=%9.3f  lat=%.6f lon=%.6f alt=%7.2f  N=%11.2f E=%10.2f  v=%6.2fm/s wheel=%5.3f\n",
			s.Sequence, s.Time,
			s.Latitude, s.Longitude, s.Altitude,
			s.Northing, s.Easting,
			s.ForwardSpeed, s.WheelAngle,
		)
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicOdometry)

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}
