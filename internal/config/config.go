package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Config holds all application configuration values.
type Config struct {
	// MQTT
	MQTTBroker          string
	MQTTClientIDSensor  string
	MQTTClientIDConsole string
	MQTTClientIDWeb     string
	MQTTClientIDDisplay string
	MQTTClientIDNMEA    string

	// Topics
	TopicOdometry string

	// Sensor identity
	SensorName      string
	FrameID         string
	ChildFrame      string
	IgnoreMapOrigin bool

	// Publishing
	PublishFrequencyHz float64 // bounded 1.0-100.0
	QueueMaxDepth      int     // 0 = sensor default, negative = unbounded

	// Map origin
	OriginLatitude  float64
	OriginLongitude float64
	OriginAltitude  float64

	// Host timing
	PhysicsStepInterval int // milliseconds, fixed physics step
	FrameInterval       int // milliseconds, render frame boundary

	// Web Server
	WebServerPort   int
	WebPushInterval int // milliseconds, websocket push cadence

	// Display
	DisplayI2CAddr        uint16
	DisplayUpdateInterval int    // milliseconds
	DisplayContent        string // what to show: "position", "motion"

	// NMEA relay
	NMEASerialPort string
	NMEABaudRate   int
}

// Package-level unexported variables for singleton pattern:
//   - globalConfig: unexported (lowercase) so other packages cannot access it directly.
//     This enforces encapsulation and prevents external code from modifying config without proper locking.
//     Has package-level scope (visible to all functions in this package, persists for program lifetime).
//   - configOnce: ensures InitGlobal() only runs once, even if called multiple times.
//   - configMu: RWMutex protects concurrent access. Write lock (Lock) for initialization,
//     read lock (RLock) for Get() allows multiple concurrent readers without blocking each other.
//
// External code must use InitGlobal() to set and Get() to read, ensuring thread safety.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := &Config{}
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Validate required fields
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_SENSOR":
		c.MQTTClientIDSensor = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value
	case "MQTT_CLIENT_ID_DISPLAY":
		c.MQTTClientIDDisplay = value
	case "MQTT_CLIENT_ID_NMEA":
		c.MQTTClientIDNMEA = value

	// Topics
	case "TOPIC_ODOMETRY":
		c.TopicOdometry = value

	// Sensor identity
	case "SENSOR_NAME":
		c.SensorName = value
	case "FRAME_ID":
		c.FrameID = value
	case "CHILD_FRAME":
		c.ChildFrame = value
	case "IGNORE_MAP_ORIGIN":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid IGNORE_MAP_ORIGIN %q: %w", value, err)
		}
		c.IgnoreMapOrigin = b

	// Publishing
	case "PUBLISH_FREQUENCY_HZ":
		freq, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid PUBLISH_FREQUENCY_HZ %q: %w", value, err)
		}
		c.PublishFrequencyHz = freq
	case "QUEUE_MAX_DEPTH":
		depth, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid QUEUE_MAX_DEPTH %q: %w", value, err)
		}
		c.QueueMaxDepth = depth

	// Map origin
	case "ORIGIN_LATITUDE":
		lat, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid ORIGIN_LATITUDE %q: %w", value, err)
		}
		c.OriginLatitude = lat
	case "ORIGIN_LONGITUDE":
		lon, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid ORIGIN_LONGITUDE %q: %w", value, err)
		}
		c.OriginLongitude = lon
	case "ORIGIN_ALTITUDE":
		alt, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid ORIGIN_ALTITUDE %q: %w", value, err)
		}
		c.OriginAltitude = alt

	// Host timing
	case "PHYSICS_STEP_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid PHYSICS_STEP_INTERVAL %q: %w", value, err)
		}
		c.PhysicsStepInterval = interval
	case "FRAME_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid FRAME_INTERVAL %q: %w", value, err)
		}
		c.FrameInterval = interval

	// Web Server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		c.WebServerPort = port
	case "WEB_PUSH_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_PUSH_INTERVAL %q: %w", value, err)
		}
		c.WebPushInterval = interval

	// Display
	case "DISPLAY_I2C_ADDR":
		addr, err := strconv.ParseUint(value, 0, 16)
		if err != nil {
			return fmt.Errorf("invalid DISPLAY_I2C_ADDR %q: %w", value, err)
		}
		c.DisplayI2CAddr = uint16(addr)
	case "DISPLAY_UPDATE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid DISPLAY_UPDATE_INTERVAL %q: %w", value, err)
		}
		c.DisplayUpdateInterval = interval
	case "DISPLAY_CONTENT":
		c.DisplayContent = value

	// NMEA relay
	case "NMEA_SERIAL_PORT":
		c.NMEASerialPort = value
	case "NMEA_BAUD_RATE":
		baud, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid NMEA_BAUD_RATE %q: %w", value, err)
		}
		c.NMEABaudRate = baud

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.TopicOdometry == "" {
		return fmt.Errorf("TOPIC_ODOMETRY is required")
	}
	if c.SensorName == "" {
		return fmt.Errorf("SENSOR_NAME is required")
	}
	if c.PublishFrequencyHz == 0 {
		return fmt.Errorf("PUBLISH_FREQUENCY_HZ is required")
	}
	if c.PublishFrequencyHz < 1.0 || c.PublishFrequencyHz > 100.0 {
		return fmt.Errorf("PUBLISH_FREQUENCY_HZ %v outside [1.0, 100.0]", c.PublishFrequencyHz)
	}
	if c.PhysicsStepInterval == 0 {
		return fmt.Errorf("PHYSICS_STEP_INTERVAL is required")
	}
	if c.FrameInterval == 0 {
		return fmt.Errorf("FRAME_INTERVAL is required")
	}
	return nil
}

// InitGlobal initializes the global configuration from file.
// Uses sync.Once to ensure this only runs once, even if called multiple times.
// Acquires write lock (configMu.Lock) during initialization to prevent concurrent access.
// This is the only function that can set globalConfig.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
// Uses read lock (configMu.RLock) to allow multiple concurrent readers without blocking.
// This is thread-safe and efficient for concurrent access across goroutines.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
