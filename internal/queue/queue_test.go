package queue

import (
	"errors"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeAcknowledger struct {
	acks    int
	nacks   int
	requeue bool
}

func (a *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	a.acks++
	return nil
}

func (a *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	a.nacks++
	a.requeue = requeue
	return nil
}

func (a *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return nil
}

func TestConsumeDeliveryStopsRetryingAtCap(t *testing.T) {
	const maxRetries = 3
	handlerCalls := 0
	handler := func([]byte) error {
		handlerCalls++
		return errors.New("campaign not found")
	}

	// Re-published copies land back on the queue with the bumped header,
	// which is what a real broker would deliver next.
	var pending []amqp.Delivery
	republished := 0
	republish := func(body []byte, retries int) error {
		republished++
		pending = append(pending, amqp.Delivery{
			Acknowledger: &fakeAcknowledger{},
			Headers:      amqp.Table{"x-retry-count": int32(retries)},
			Body:         body,
		})
		return nil
	}

	pending = append(pending, amqp.Delivery{
		Acknowledger: &fakeAcknowledger{},
		Body:         []byte(`{"campaign_id":"gone"}`),
	})
	for len(pending) > 0 {
		d := pending[0]
		pending = pending[1:]
		consumeDelivery(d, maxRetries, handler, republish)

		ack := d.Acknowledger.(*fakeAcknowledger)
		assert.Equal(t, 1, ack.acks, "every delivery must be acked exactly once")
		assert.Equal(t, 0, ack.nacks)
	}

	assert.Equal(t, maxRetries, republished)
	assert.Equal(t, maxRetries+1, handlerCalls, "initial attempt plus maxRetries retries")
}

func TestConsumeDeliveryAcksSuccessWithoutRepublish(t *testing.T) {
	ack := &fakeAcknowledger{}
	republished := 0
	consumeDelivery(
		amqp.Delivery{Acknowledger: ack, Body: []byte(`{}`)},
		3,
		func([]byte) error { return nil },
		func([]byte, int) error { republished++; return nil },
	)

	assert.Equal(t, 1, ack.acks)
	assert.Equal(t, 0, republished)
}

func TestConsumeDeliveryNacksWhenRepublishFails(t *testing.T) {
	ack := &fakeAcknowledger{}
	consumeDelivery(
		amqp.Delivery{Acknowledger: ack, Body: []byte(`{}`)},
		3,
		func([]byte) error { return errors.New("boom") },
		func([]byte, int) error { return errors.New("channel closed") },
	)

	assert.Equal(t, 0, ack.acks, "job must stay on the broker")
	assert.Equal(t, 1, ack.nacks)
	assert.True(t, ack.requeue)
}

func TestRetryCountReadsIntegerWidths(t *testing.T) {
	assert.Equal(t, 0, retryCount(nil))
	assert.Equal(t, 2, retryCount(amqp.Table{"x-retry-count": int32(2)}))
	assert.Equal(t, 5, retryCount(amqp.Table{"x-retry-count": int64(5)}))
	assert.Equal(t, 7, retryCount(amqp.Table{"x-retry-count": 7}))
	assert.Equal(t, 0, retryCount(amqp.Table{"x-retry-count": "9"}))
}

func TestInMemoryQueueDeliversPayload(t *testing.T) {
	q := NewInMemoryQueue(nil)
	got := make(chan []byte, 1)
	q.Subscribe("jobs", func(body []byte) error {
		got <- body
		return nil
	})

	require.NoError(t, q.Publish("jobs", ExecutionJob{CampaignID: "abc"}))
	select {
	case body := <-got:
		assert.JSONEq(t, `{"campaign_id":"abc"}`, string(body))
	case <-time.After(time.Second):
		t.Fatal("handler never ran")
	}
}

func TestInMemoryQueueLogsHandlerFailure(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	q := NewInMemoryQueue(zap.New(core))
	q.Subscribe("jobs", func([]byte) error {
		return errors.New("campaign not found")
	})

	require.NoError(t, q.Publish("jobs", ExecutionJob{CampaignID: "gone"}))
	require.Eventually(t, func() bool {
		return logs.FilterMessage("queue handler failed").Len() == 1
	}, time.Second, 10*time.Millisecond)

	entry := logs.FilterMessage("queue handler failed").All()[0]
	assert.Equal(t, "jobs", entry.ContextMap()["topic"])
}

func TestInMemoryQueueRejectsUnknownTopic(t *testing.T) {
	q := NewInMemoryQueue(nil)
	assert.Error(t, q.Publish("nobody-listens", ExecutionJob{CampaignID: "abc"}))
}
