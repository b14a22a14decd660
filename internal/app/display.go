package app

import (
	"encoding/json"
	"fmt"
	"image"
	"log"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/vehicle_odometry/internal/config"
	"github.com/relabs-tech/vehicle_odometry/internal/odometry"
)

// DisplayData holds the latest sample for the display loop
type DisplayData struct {
	mu         sync.RWMutex
	sample     odometry.Sample
	haveSample bool
}

// RunDisplay renders the live odometry feed on an SSD1306 OLED.
func RunDisplay() error {
	cfg := config.Get()

	// Initialize periph
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph: %w", err)
	}

	// Open I2C bus
	bus, err := i2creg.Open("")
	if err != nil {
		return fmt.Errorf("failed to open I2C bus: %w", err)
	}
	defer bus.Close()

	// The upstream driver speaks to the panel at the fixed 0x3C address.
	if cfg.DisplayI2CAddr != 0 && cfg.DisplayI2CAddr != 0x3C {
		log.Printf("display: DISPLAY_I2C_ADDR 0x%02X ignored, driver uses 0x3C", cfg.DisplayI2CAddr)
	}
	display, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		return fmt.Errorf("failed to initialize display: %w", err)
	}
	log.Println("display: initialized")

	if err := showSplash(display); err != nil {
		log.Printf("display: error showing splash: %v", err)
	}

	data := &DisplayData{}

	// Connect to MQTT
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDDisplay)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("display: connected to MQTT broker at %s", cfg.MQTTBroker)

	token := client.Subscribe(cfg.TopicOdometry, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var s odometry.Sample
		if err := json.Unmarshal(msg.Payload(), &s); err != nil {
			log.Printf("display: sample unmarshal error: %v", err)
			return
		}
		data.mu.Lock()
		data.sample = s
		data.haveSample = true
		data.mu.Unlock()
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("display: subscribed to %s", cfg.TopicOdometry)

	// Display update loop
	ticker := time.NewTicker(time.Duration(cfg.DisplayUpdateInterval) * time.Millisecond)
	defer ticker.Stop()

	log.Println("display: starting update loop")

	for range ticker.C {
		data.mu.RLock()
		sample := data.sample
		have := data.haveSample
		data.mu.RUnlock()

		var err error
		switch cfg.DisplayContent {
		case "motion":
			err = updateMotionDisplay(display, sample, have)
		default: // "position"
			err = updatePositionDisplay(display, sample, have)
		}
		if err != nil {
			log.Printf("display: error updating display: %v", err)
		}
	}

	return nil
}

func newDrawer(img *image1bit.VerticalLSB) *font.Drawer {
	// Blank image
	for i := range img.Pix {
		img.Pix[i] = 0
	}
	return &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}
}

func updatePositionDisplay(dev *ssd1306.Dev, s odometry.Sample, haveData bool) error {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, 128, 64))
	drawer := newDrawer(img)

	if !haveData {
		drawer.Dot = fixed.P(0, 26)
		drawer.DrawBytes([]byte("Odometry"))
		drawer.Dot = fixed.P(0, 39)
		drawer.DrawBytes([]byte("Waiting..."))
	} else {
		// Latitude
		drawer.Dot = fixed.P(0, 13)
		latDir := "N"
		lat := s.Latitude
		if lat < 0 {
			latDir = "S"
			lat = -lat
		}
		drawer.DrawBytes([]byte(fmt.Sprintf("%.4f%s", lat, latDir)))

		// Longitude
		drawer.Dot = fixed.P(0, 26)
		lonDir := "E"
		lon := s.Longitude
		if lon < 0 {
			lonDir = "W"
			lon = -lon
		}
		drawer.DrawBytes([]byte(fmt.Sprintf("%.4f%s", lon, lonDir)))

		// Altitude
		drawer.Dot = fixed.P(0, 39)
		drawer.DrawBytes([]byte(fmt.Sprintf("Alt: %.0fm", s.Altitude)))

		// Sequence
		drawer.Dot = fixed.P(0, 52)
		drawer.DrawBytes([]byte(fmt.Sprintf("seq %d", s.Sequence)))
	}

	return dev.Draw(dev.Bounds(), img, image.Point{})
}

func updateMotionDisplay(dev *ssd1306.Dev, s odometry.Sample, haveData bool) error {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, 128, 64))
	drawer := newDrawer(img)

	if !haveData {
		drawer.Dot = fixed.P(0, 26)
		drawer.DrawBytes([]byte("Motion"))
		drawer.Dot = fixed.P(0, 39)
		drawer.DrawBytes([]byte("Waiting..."))
	} else {
		drawer.Dot = fixed.P(0, 13)
		drawer.DrawBytes([]byte(fmt.Sprintf("Spd: %5.1f m/s", s.ForwardSpeed)))

		drawer.Dot = fixed.P(0, 26)
		drawer.DrawBytes([]byte(fmt.Sprintf("Whl: %5.3f rad", s.WheelAngle)))

		drawer.Dot = fixed.P(0, 39)
		drawer.DrawBytes([]byte(fmt.Sprintf("N: %11.1f", s.Northing)))

		drawer.Dot = fixed.P(0, 52)
		drawer.DrawBytes([]byte(fmt.Sprintf("E: %11.1f", s.Easting)))
	}

	return dev.Draw(dev.Bounds(), img, image.Point{})
}

func showSplash(dev *ssd1306.Dev) error {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, 128, 64))
	drawer := newDrawer(img)

	drawer.Dot = fixed.P(10, 26)
	drawer.DrawBytes([]byte("Vehicle"))

	drawer.Dot = fixed.P(10, 43)
	drawer.DrawBytes([]byte("Odometry"))

	return dev.Draw(dev.Bounds(), img, image.Point{})
}
