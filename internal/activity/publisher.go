package activity

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/bolao-platform/pkg/contracts/events"
)

// KafkaPublisher publica registros de atividade já commitados no tópico de
// fan-out. Implementa ledger.Publisher; a falha aqui nunca desfaz a transação.
type KafkaPublisher struct {
	writer *kafka.Writer
	log    *zap.Logger
}

func NewKafkaPublisher(brokers string, topic string, log *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers),
			Topic:                  topic,
			Balancer:               &kafka.LeastBytes{},
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
			BatchTimeout:           10 * time.Millisecond,
			WriteTimeout:           10 * time.Second,
		},
		log: log,
	}
}

// PublishActivity serializa o evento e envia com a chave no ActivityID,
// garantindo ordem por registro dentro da partição
func (p *KafkaPublisher) PublishActivity(ctx context.Context, e events.ActivityRecorded) error {
	value, err := json.Marshal(e)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(e.ActivityID),
		Value: value,
		Time:  time.Now(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Error("failed to publish activity", zap.Error(err))
		return err
	}
	p.log.Debug("published activity", zap.String("activity_id", e.ActivityID), zap.String("action", e.ActionType))
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
