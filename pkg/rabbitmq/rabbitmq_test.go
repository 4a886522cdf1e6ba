package rabbitmq

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAcknowledger records what handleDelivery did with a message.
type fakeAcknowledger struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (f *fakeAcknowledger) Ack(uint64, bool) error { f.acked = true; return nil }
func (f *fakeAcknowledger) Nack(_ uint64, _ bool, requeue bool) error {
	f.nacked, f.requeue = true, requeue
	return nil
}
func (f *fakeAcknowledger) Reject(_ uint64, requeue bool) error {
	f.nacked, f.requeue = true, requeue
	return nil
}

func delivery(t *testing.T, body []byte) (amqp.Delivery, *fakeAcknowledger) {
	t.Helper()
	ack := &fakeAcknowledger{}
	return amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: body}, ack
}

func TestNewEvent(t *testing.T) {
	event, err := NewEvent("user.registered", map[string]any{"userId": 7})
	require.NoError(t, err)
	assert.Equal(t, "user.registered", event.Type)
	assert.NotEmpty(t, event.ID)
	assert.JSONEq(t, `{"userId":7}`, string(event.Payload))

	_, err = NewEvent("bad", make(chan int))
	assert.Error(t, err)
}

func TestHandleDelivery(t *testing.T) {
	event, err := NewEvent("user.registered", map[string]any{"userId": 7})
	require.NoError(t, err)
	body, err := json.Marshal(event)
	require.NoError(t, err)

	t.Run("ack on success", func(t *testing.T) {
		msg, ack := delivery(t, body)
		var got Event
		handleDelivery(msg, func(e Event) error { got = e; return nil })
		assert.True(t, ack.acked)
		assert.Equal(t, event.ID, got.ID)
	})

	t.Run("requeue on handler error", func(t *testing.T) {
		msg, ack := delivery(t, body)
		handleDelivery(msg, func(Event) error { return errors.New("busy") })
		assert.True(t, ack.nacked)
		assert.True(t, ack.requeue)
	})

	t.Run("drop malformed", func(t *testing.T) {
		msg, ack := delivery(t, []byte("{not json"))
		handleDelivery(msg, func(Event) error {
			t.Fatal("handler must not run")
			return nil
		})
		assert.True(t, ack.nacked)
		assert.False(t, ack.requeue)
	})
}
