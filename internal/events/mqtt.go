package events

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// mqttClient is satisfied by common/mqtt.Client.
type mqttClient interface {
	Publish(topic string, qos byte, retained bool, payload []byte) error
}

// MQTTPublisher 把事件以 JSON 发布到 MQTT 主题 <topic>/<type>
type MQTTPublisher struct {
	client mqttClient
	topic  string
	qos    byte
	logger *zap.Logger
}

// NewMQTTPublisher 创建 MQTT 发布器
func NewMQTTPublisher(client mqttClient, topic string, qos byte, logger *zap.Logger) *MQTTPublisher {
	return &MQTTPublisher{client: client, topic: topic, qos: qos, logger: logger}
}

var _ Publisher = (*MQTTPublisher)(nil)

func (p *MQTTPublisher) Publish(ctx context.Context, event ContactEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	topic := p.topic + "/" + event.Type
	if err := p.client.Publish(topic, p.qos, false, payload); err != nil {
		return err
	}
	p.logger.Debug("contact event published", zap.String("topic", topic), zap.Int64("contact_id", event.ContactID))
	return nil
}
