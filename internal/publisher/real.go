package publisher

import (
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

const (
	connectTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second
	disconnectMs   = 1000
)

// MQTTPublisher publishes to a real broker.
type MQTTPublisher struct {
	client paho.Client
}

// NewMQTTPublisher connects to broker, e.g. "tcp://localhost:1883".
func NewMQTTPublisher(broker, clientID string) (*MQTTPublisher, error) {
	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("connect to %s: timeout", broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to %s: %w", broker, err)
	}
	return &MQTTPublisher{client: client}, nil
}

func (p *MQTTPublisher) Publish(msg Message) error {
	token := p.client.Publish(msg.Topic, msg.QoS, msg.Retained, msg.Payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish %s: timeout", msg.Topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", msg.Topic, err)
	}
	return nil
}

// IsConnected reports whether the client currently holds a broker session.
func (p *MQTTPublisher) IsConnected() bool {
	return p.client.IsConnectionOpen()
}

func (p *MQTTPublisher) Close() error {
	p.client.Disconnect(disconnectMs)
	return nil
}
