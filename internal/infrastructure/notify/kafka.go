// Package notify publica las alertas de estoque bajo (Kafka y correo).
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/Inventario-dashboard/internal/domain/entity"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/repository"
)

var _ repository.AlertPublisher = (*KafkaPublisher)(nil)

// messageWriter subconjunto de *kafka.Writer usado por el publisher.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher escribe cada alerta como JSON, con el id del producto como key.
// El balanceo por hash de la key manda todas las alertas de un producto a la misma partición.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
}

// NewKafkaPublisher crea el writer hacia los brokers.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: 5 * time.Second,
		// una alerta por escritura: no esperar el BatchTimeout por defecto de 1s
		BatchTimeout: 10 * time.Millisecond,
	}
	return &KafkaPublisher{writer: writer, topic: topic}
}

func (p *KafkaPublisher) PublishLowStock(ctx context.Context, alert entity.LowStockAlert) error {
	data, err := json.Marshal(alert)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(alert.ProductID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event", Value: []byte("estoque.baixo")},
		},
		Time: alert.OccurredAt,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka %s: %w", p.topic, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
