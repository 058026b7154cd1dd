package queue

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// Queue is the internal pub/sub seam. Sync jobs and incident metrics
// publish lifecycle events here; subscribers log them and optionally
// forward them to RabbitMQ for the archiving worker.
type Queue interface {
	Publish(topic string, payload any) error
	Subscribe(topic string, handler func(payload any) error) error
}

// InMemoryQueue is an in-process queue with per-delivery retry.
type InMemoryQueue struct {
	mu       sync.Mutex
	handlers map[string][]func(payload any) error
}

// NewInMemoryQueue creates a new queue
func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{
		handlers: make(map[string][]func(payload any) error),
	}
}

// delivery wraps a payload with retry info
type delivery struct {
	Payload    any
	RetryCount int
	MaxRetries int
}

// Publish sends a message to all subscribers of the topic.
func (q *InMemoryQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	handlers := q.handlers[topic]
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	d := delivery{
		Payload:    payload,
		RetryCount: 0,
		MaxRetries: 3,
	}

	for _, handler := range handlers {
		go q.deliver(handler, d)
	}

	return nil
}

// deliver runs the handler with bounded retries and backoff.
func (q *InMemoryQueue) deliver(handler func(payload any) error, d delivery) {
	for d.RetryCount <= d.MaxRetries {
		err := handler(d.Payload)
		if err == nil {
			return // ACK
		}

		d.RetryCount++
		log.Printf("⚠️ event handler failed (attempt %d/%d): %v", d.RetryCount, d.MaxRetries, err)

		if d.RetryCount > d.MaxRetries {
			log.Printf("⚠️ event permanently dropped after %d attempts: %+v", d.MaxRetries, d.Payload)
			return // no requeue
		}

		time.Sleep(time.Duration(d.RetryCount*500) * time.Millisecond)
	}
}

// Subscribe adds a handler for a topic
func (q *InMemoryQueue) Subscribe(topic string, handler func(payload any) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

// StartEventLogSubscriber attaches a logging subscriber to each topic
// so published events always have at least one consumer.
func StartEventLogSubscriber(q Queue, topics ...string) {
	for _, topic := range topics {
		t := topic
		err := q.Subscribe(t, func(payload any) error {
			log.Printf("📩 %s: %+v", t, payload)
			return nil
		})
		if err != nil {
			log.Println("⚠️ failed to subscribe logger for", t, ":", err)
		}
	}
}

// StartEventForwarder bridges internal topics onto RabbitMQ so the
// standalone worker can archive them. Forwarding is best-effort: if the
// broker is unreachable the events still reach the local log.
func StartEventForwarder(q Queue, pub *AMQPPublisher, topics ...string) {
	for _, topic := range topics {
		t := topic
		err := q.Subscribe(t, func(payload any) error {
			return pub.Publish(t, payload)
		})
		if err != nil {
			log.Println("⚠️ failed to subscribe forwarder for", t, ":", err)
		}
	}
}
