package queue

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// Topic used for out-of-band campaign execution jobs.
const CampaignExecutions = "campaign_executions"

// ExecutionJob is the payload published when a campaign is scheduled for
// asynchronous execution.
type ExecutionJob struct {
	CampaignID string `json:"campaign_id"`
}

// Queue decouples publishers from the broker implementation.
type Queue interface {
	Publish(topic string, payload any) error
}

// AMQPQueue publishes JSON payloads to durable RabbitMQ queues.
type AMQPQueue struct {
	conn *amqp.Connection
	ch   *amqp.Channel

	mu       sync.Mutex
	declared map[string]bool
}

// DialAMQP connects to the broker and opens a publishing channel.
func DialAMQP(url string) (*AMQPQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	return &AMQPQueue{conn: conn, ch: ch, declared: map[string]bool{}}, nil
}

func (q *AMQPQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.declared[topic] {
		if _, err := q.ch.QueueDeclare(topic, true, false, false, false, nil); err != nil {
			return err
		}
		q.declared[topic] = true
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return q.ch.Publish("", topic, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}

func (q *AMQPQueue) Close() error {
	q.ch.Close()
	return q.conn.Close()
}

// Consume registers a handler for one queue. A failed job is re-published
// as a copy with the x-retry-count header incremented and the original
// acked; a plain requeue would redeliver the original headers and the count
// would never advance. Once the count reaches maxRetries the job is dropped.
func (q *AMQPQueue) Consume(topic string, maxRetries int, handler func(body []byte) error) error {
	if _, err := q.ch.QueueDeclare(topic, true, false, false, false, nil); err != nil {
		return err
	}
	msgs, err := q.ch.Consume(topic, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	go func() {
		for d := range msgs {
			consumeDelivery(d, maxRetries, handler, func(body []byte, retries int) error {
				return q.publishRetry(topic, body, retries)
			})
		}
	}()
	return nil
}

// consumeDelivery acks successful jobs, re-publishes failed ones with the
// retry count bumped, and drops jobs whose retries are exhausted. When the
// re-publish itself fails the original is nacked back to the broker so the
// job is not lost.
func consumeDelivery(d amqp.Delivery, maxRetries int, handler func(body []byte) error, republish func(body []byte, retries int) error) {
	if err := handler(d.Body); err != nil {
		if n := retryCount(d.Headers); n < maxRetries {
			if rerr := republish(d.Body, n+1); rerr != nil {
				d.Nack(false, true)
				return
			}
		}
	}
	d.Ack(false)
}

// retryCount reads the x-retry-count header; brokers hand integer headers
// back with varying widths.
func retryCount(headers amqp.Table) int {
	switch v := headers["x-retry-count"].(type) {
	case int32:
		return int(v)
	case int64:
		return int(v)
	case int:
		return v
	}
	return 0
}

func (q *AMQPQueue) publishRetry(topic string, body []byte, retries int) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.ch.Publish("", topic, false, false, amqp.Publishing{
		ContentType: "application/json",
		Headers:     amqp.Table{"x-retry-count": int32(retries)},
		Body:        body,
	})
}

// InMemoryQueue runs handlers in-process. Used in tests and in single-node
// deployments without a broker.
type InMemoryQueue struct {
	mu       sync.Mutex
	handlers map[string][]func(body []byte) error
	log      *zap.Logger
}

func NewInMemoryQueue(log *zap.Logger) *InMemoryQueue {
	if log == nil {
		log = zap.NewNop()
	}
	return &InMemoryQueue{
		handlers: make(map[string][]func(body []byte) error),
		log:      log,
	}
}

func (q *InMemoryQueue) Subscribe(topic string, handler func(body []byte) error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers[topic] = append(q.handlers[topic], handler)
}

func (q *InMemoryQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	handlers := q.handlers[topic]
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	for _, h := range handlers {
		go func(h func(body []byte) error) {
			if err := h(body); err != nil {
				q.log.Error("queue handler failed",
					zap.String("topic", topic), zap.Error(err))
			}
		}(h)
	}
	return nil
}

var (
	_ Queue = (*AMQPQueue)(nil)
	_ Queue = (*InMemoryQueue)(nil)
)
