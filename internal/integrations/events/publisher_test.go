package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/pkg/types"
)

type published struct {
	key string
	msg amqp.Publishing
}

type fakeChannel struct {
	declared   []string
	published  []published
	publishErr error
	closed     bool
}

func (c *fakeChannel) QueueDeclare(name string, durable, _, _, _ bool, _ amqp.Table) (amqp.Queue, error) {
	if !durable {
		return amqp.Queue{}, errors.New("queue must be durable")
	}
	c.declared = append(c.declared, name)
	return amqp.Queue{Name: name}, nil
}

func (c *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if c.publishErr != nil {
		return c.publishErr
	}
	c.published = append(c.published, published{key: key, msg: msg})
	return nil
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func testReservation() *domain.Reservation {
	return &domain.Reservation{
		ID:           42,
		CompanyID:    1,
		CustomerID:   5,
		RoomID:       7,
		CheckInDate:  types.NewDate(2025, 6, 1),
		CheckOutDate: types.NewDate(2025, 6, 4),
		Status:       domain.StatusPending,
		TotalAmount:  decimal.NewFromInt(300),
	}
}

func TestNewPublisher_DeclaresQueues(t *testing.T) {
	ch := &fakeChannel{}

	_, err := NewPublisher(ch, nopLogger{})

	require.NoError(t, err)
	assert.Equal(t, []string{"reservation.created", "reservation.cancelled", "reservation.confirmed"}, ch.declared)
}

func TestPublisher_Publish(t *testing.T) {
	ch := &fakeChannel{}
	p, err := NewPublisher(ch, nopLogger{})
	require.NoError(t, err)

	event := NewReservationEvent(ReservationCreated, testReservation(), time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, p.Publish(context.Background(), event))

	require.Len(t, ch.published, 1)
	got := ch.published[0]
	assert.Equal(t, "reservation.created", got.key)
	assert.Equal(t, amqp.Persistent, got.msg.DeliveryMode)
	assert.Equal(t, "application/json", got.msg.ContentType)
	assert.Equal(t, event.EventID, got.msg.MessageId)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(got.msg.Body, &decoded))
	assert.Equal(t, "2025-06-01", decoded["check_in_date"])
	assert.Equal(t, "300", decoded["total_amount"])
	assert.Equal(t, float64(42), decoded["reservation_id"])
}

func TestPublisher_PublishError(t *testing.T) {
	ch := &fakeChannel{}
	p, err := NewPublisher(ch, nopLogger{})
	require.NoError(t, err)
	ch.publishErr = errors.New("channel closed")

	err = p.Publish(context.Background(), NewReservationEvent(ReservationCancelled, testReservation(), time.Now()))

	assert.ErrorIs(t, err, ErrPublish)
}

func TestNewReservationEvent_UniqueIDs(t *testing.T) {
	a := NewReservationEvent(ReservationCreated, testReservation(), time.Now())
	b := NewReservationEvent(ReservationCreated, testReservation(), time.Now())
	assert.NotEqual(t, a.EventID, b.EventID)
}
