package testutils

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
)

// MessageCapture records messages arriving on subscribed topics for test verification
type MessageCapture struct {
	messages map[string][]*message.Message
	mutex    sync.RWMutex
}

// NewMessageCapture creates a new message capture instance
func NewMessageCapture() *MessageCapture {
	return &MessageCapture{messages: make(map[string][]*message.Message)}
}

// Subscribe starts consuming topic from subscriber until ctx is cancelled. Every
// message is acked after it is recorded.
func (mc *MessageCapture) Subscribe(ctx context.Context, subscriber message.Subscriber, topic string) error {
	ch, err := subscriber.Subscribe(ctx, topic)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}

	go func() {
		for msg := range ch {
			mc.mutex.Lock()
			mc.messages[topic] = append(mc.messages[topic], msg)
			mc.mutex.Unlock()
			msg.Ack()
		}
	}()
	return nil
}

// GetMessages returns captured messages for a specific topic
func (mc *MessageCapture) GetMessages(topic string) []*message.Message {
	mc.mutex.RLock()
	defer mc.mutex.RUnlock()

	msgs := make([]*message.Message, len(mc.messages[topic]))
	copy(msgs, mc.messages[topic])
	return msgs
}

// WaitForMessages waits for a specific number of messages on a topic with timeout
func (mc *MessageCapture) WaitForMessages(topic string, expectedCount int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		if len(mc.GetMessages(topic)) >= expectedCount {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}
