package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "odometry_config.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validConfig = `# odometry sensor config
MQTT_BROKER=tcp://localhost:1883
TOPIC_ODOMETRY=vehicle/odometry
SENSOR_NAME=gps-odometry
FRAME_ID=gps
CHILD_FRAME=base_link
IGNORE_MAP_ORIGIN=false
PUBLISH_FREQUENCY_HZ=12.5
QUEUE_MAX_DEPTH=128
ORIGIN_LATITUDE=37.4124
ORIGIN_LONGITUDE=-121.998
ORIGIN_ALTITUDE=10.0
PHYSICS_STEP_INTERVAL=10
FRAME_INTERVAL=33
`

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("parses a valid file", func(t *testing.T) {
		t.Parallel()
		cfg, err := Load(writeConfig(t, validConfig))
		require.NoError(t, err)

		assert.Equal(t, "tcp://localhost:1883", cfg.MQTTBroker)
		assert.Equal(t, "vehicle/odometry", cfg.TopicOdometry)
		assert.Equal(t, "gps-odometry", cfg.SensorName)
		assert.Equal(t, "base_link", cfg.ChildFrame)
		assert.False(t, cfg.IgnoreMapOrigin)
		assert.Equal(t, 12.5, cfg.PublishFrequencyHz)
		assert.Equal(t, 128, cfg.QueueMaxDepth)
		assert.Equal(t, -121.998, cfg.OriginLongitude)
		assert.Equal(t, 10, cfg.PhysicsStepInterval)
		assert.Equal(t, 33, cfg.FrameInterval)
	})

	t.Run("skips comments and blank lines", func(t *testing.T) {
		t.Parallel()
		cfg, err := Load(writeConfig(t, "\n# comment\n\n"+validConfig))
		require.NoError(t, err)
		assert.Equal(t, "gps-odometry", cfg.SensorName)
	})

	t.Run("rejects unknown keys", func(t *testing.T) {
		t.Parallel()
		_, err := Load(writeConfig(t, validConfig+"BOGUS_KEY=1\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown config key")
	})

	t.Run("rejects malformed lines", func(t *testing.T) {
		t.Parallel()
		_, err := Load(writeConfig(t, "MQTT_BROKER\n"))
		require.Error(t, err)
	})

	t.Run("rejects bad numeric values", func(t *testing.T) {
		t.Parallel()
		_, err := Load(writeConfig(t, "PUBLISH_FREQUENCY_HZ=fast\n"))
		require.Error(t, err)
	})

	t.Run("hex display address", func(t *testing.T) {
		t.Parallel()
		cfg, err := Load(writeConfig(t, validConfig+"DISPLAY_I2C_ADDR=0x3C\n"))
		require.NoError(t, err)
		assert.Equal(t, uint16(0x3C), cfg.DisplayI2CAddr)
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("missing broker", func(t *testing.T) {
		t.Parallel()
		_, err := Load(writeConfig(t, "TOPIC_ODOMETRY=t\nSENSOR_NAME=s\nPUBLISH_FREQUENCY_HZ=10\nPHYSICS_STEP_INTERVAL=10\nFRAME_INTERVAL=33\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "MQTT_BROKER")
	})

	t.Run("frequency out of bounds", func(t *testing.T) {
		t.Parallel()
		_, err := Load(writeConfig(t, validConfig+"PUBLISH_FREQUENCY_HZ=120\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "outside [1.0, 100.0]")
	})

	t.Run("missing physics step", func(t *testing.T) {
		t.Parallel()
		_, err := Load(writeConfig(t, "MQTT_BROKER=b\nTOPIC_ODOMETRY=t\nSENSOR_NAME=s\nPUBLISH_FREQUENCY_HZ=10\nFRAME_INTERVAL=33\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "PHYSICS_STEP_INTERVAL")
	})
}
