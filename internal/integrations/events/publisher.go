package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher публикует события бронирований в RabbitMQ
// Очередь на каждый тип события, сообщения persistent, обмен по умолчанию
type Publisher struct {
	mu   sync.Mutex // amqp.Channel нельзя использовать из нескольких горутин
	conn *amqp.Connection
	ch   Channel
	log  Logger
}

// Dial подключается к брокеру и объявляет durable очереди событий
func Dial(url string, log Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("%w: dial: %v", ErrConnect, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: open channel: %v", ErrConnect, err)
	}

	p, err := NewPublisher(ch, log)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	p.conn = conn
	return p, nil
}

// NewPublisher создает издателя поверх открытого канала
func NewPublisher(ch Channel, log Logger) (*Publisher, error) {
	for _, t := range Types {
		if _, err := ch.QueueDeclare(string(t), true, false, false, false, nil); err != nil {
			_ = ch.Close()
			return nil, fmt.Errorf("%w: declare queue %s: %v", ErrConnect, t, err)
		}
	}
	return &Publisher{ch: ch, log: log}, nil
}

// Publish отправляет событие, routing key = тип события
func (p *Publisher) Publish(ctx context.Context, event ReservationEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMarshal, err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.EventID,
		Timestamp:    time.Now().UTC(),
		Type:         string(event.Type),
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ch.PublishWithContext(ctx, "", string(event.Type), false, false, msg); err != nil {
		p.log.Error("events: publish %s for reservation=%d failed: %v", event.Type, event.ReservationID, err)
		return fmt.Errorf("%w: %s: %v", ErrPublish, event.Type, err)
	}

	p.log.Info("events: published %s event_id=%s reservation=%d", event.Type, event.EventID, event.ReservationID)
	return nil
}

// Close закрывает канал и соединение
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	err := p.ch.Close()
	if p.conn != nil {
		if cerr := p.conn.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// NopPublisher издатель для запуска без брокера
type NopPublisher struct{}

// Publish ничего не делает
func (NopPublisher) Publish(context.Context, ReservationEvent) error { return nil }
