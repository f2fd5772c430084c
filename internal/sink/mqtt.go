package sink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/UnknownOlympus/beacon/internal/models"
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQTTPublisher is the part of mqtt.Client the sink uses.
type MQTTPublisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

// ErrPublishTimeout is returned when the broker does not acknowledge a publish in time.
var ErrPublishTimeout = errors.New("mqtt publish timed out")

const (
	publishTimeout = 5 * time.Second
	disconnectWait = 250
)

// MQTTSink publishes every update as JSON to "<topic>/<cab>" at QoS 0.
type MQTTSink struct {
	cabID   string
	client  MQTTPublisher
	topic   string
	timeout time.Duration
	now     clock
}

func NewMQTTSink(cabID string, client MQTTPublisher, topic string) *MQTTSink {
	return &MQTTSink{cabID: cabID, client: client, topic: topic, timeout: publishTimeout, now: utcNow}
}

// UpdateLocation waits for the broker acknowledgment, the publish timeout or ctx, whichever comes first.
func (ms *MQTTSink) UpdateLocation(ctx context.Context, coordinates string) error {
	payload, err := json.Marshal(models.LocationUpdate{CabID: ms.cabID, Coordinates: coordinates, RecordedAt: ms.now()})
	if err != nil {
		return fmt.Errorf("failed to encode location update: %w", err)
	}

	token := ms.client.Publish(ms.topic+"/"+ms.cabID, 0, false, payload)

	timer := time.NewTimer(ms.timeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("mqtt publish abandoned: %w", ctx.Err())
	case <-timer.C:
		return ErrPublishTimeout
	case <-token.Done():
	}

	if err = token.Error(); err != nil {
		return fmt.Errorf("failed to publish location update: %w", err)
	}

	return nil
}

func (ms *MQTTSink) Close() error {
	ms.client.Disconnect(disconnectWait)
	return nil
}
