package app

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	serial "github.com/jacobsa/go-serial/serial"

	"github.com/relabs-tech/vehicle_odometry/internal/config"
	"github.com/relabs-tech/vehicle_odometry/internal/nmea"
	"github.com/relabs-tech/vehicle_odometry/internal/odometry"
)

// RunNMEARelay subscribes to the odometry topic and writes each sample to a
// serial port as NMEA RMC/GGA sentences, so tools built for a real GPS
// receiver can consume the simulated sensor.
func RunNMEARelay() error {
	cfg := config.Get()
	if cfg.NMEASerialPort == "" {
		return fmt.Errorf("NMEA_SERIAL_PORT is required for the relay")
	}
	baud := cfg.NMEABaudRate
	if baud == 0 {
		baud = 9600
	}

	// ---- 1) Open the output serial port ----
	serialOpts := serial.OpenOptions{
		PortName:        cfg.NMEASerialPort,
		BaudRate:        uint(baud),
		DataBits:        8,
		StopBits:        1,
		MinimumReadSize: 1,
		ParityMode:      serial.PARITY_NONE,
	}

	port, err := serial.Open(serialOpts)
	if err != nil {
		return fmt.Errorf("open serial port %s: %w", cfg.NMEASerialPort, err)
	}
	defer port.Close()
	log.Printf("nmea: serial port opened on %s at %d baud", cfg.NMEASerialPort, baud)

	// ---- 2) Connect to MQTT broker ----
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDNMEA)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("nmea: connected to MQTT broker at %s", cfg.MQTTBroker)

	token := client.Subscribe(cfg.TopicOdometry, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var s odometry.Sample
		if err := json.Unmarshal(msg.Payload(), &s); err != nil {
			log.Printf("nmea: sample unmarshal error: %v", err)
			return
		}

		now := time.Now()
		for _, sentence := range []string{nmea.RMC(s, now), nmea.GGA(s, now)} {
			if _, err := port.Write([]byte(sentence + "\r\n")); err != nil {
				log.Printf("nmea: serial write error: %v", err)
				return
			}
		}
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("nmea: subscribed to %s", cfg.TopicOdometry)

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("nmea: shutting down")
	client.Disconnect(250)
	return nil
}
