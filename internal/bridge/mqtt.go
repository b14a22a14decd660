package bridge

import (
	"encoding/json"
	"fmt"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/relabs-tech/vehicle_odometry/internal/odometry"
)

// MQTT publishes odometry samples to a broker topic as retained JSON. It
// implements odometry.Transport.
type MQTT struct {
	client mqtt.Client
	topic  string
}

// Dial connects to the broker. The client id gets a random suffix so several
// instances can share a broker without kicking each other off.
func Dial(broker, clientID, topic string) (*MQTT, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(fmt.Sprintf("%s-%.8s", clientID, uuid.NewString())).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", broker, token.Error())
	}
	log.Printf("bridge: connected to MQTT broker at %s", broker)

	return &MQTT{client: client, topic: topic}, nil
}

// Connected reports whether the broker connection is currently up.
func (m *MQTT) Connected() bool {
	return m.client.IsConnected()
}

// Emit publishes one sample, fire-and-forget at QoS 0.
func (m *MQTT) Emit(sample odometry.Sample) error {
	payload, err := json.Marshal(sample)
	if err != nil {
		return fmt.Errorf("marshal sample %d: %w", sample.Sequence, err)
	}
	token := m.client.Publish(m.topic, 0, true, payload)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("publish %s: %w", m.topic, token.Error())
	}
	return nil
}

// Close disconnects from the broker.
func (m *MQTT) Close() {
	m.client.Disconnect(250)
}
