package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type EventType string

const (
	// SessionInvalidated is published when the gateway observes a 401 on
	// an authenticated call, or when credentials fail validation. The
	// session manager subscribes and resets to the unauthenticated state.
	SessionInvalidated EventType = "session.invalidated"

	// SessionAuthenticated is published after a successful login so
	// interested components (views, audit logging) can react.
	SessionAuthenticated EventType = "session.authenticated"
)

// Event is the payload carried on the in-process bus.
type Event struct {
	Type       EventType `json:"type"`
	Username   string    `json:"username,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher is the producing side of the bus. The gateway and session
// manager depend on this interface so tests can swap in MockPublisher.
type Publisher interface {
	Publish(event Event) error
}

// Bus is an in-process pub/sub carrying session lifecycle events. It
// decouples the HTTP transport from session state: the gateway publishes
// an invalidation instead of reaching into the session manager directly.
type Bus struct {
	pubSub *gochannel.GoChannel
	logger *slog.Logger
}

func NewBus(logger *slog.Logger) *Bus {
	return &Bus{
		pubSub: gochannel.NewGoChannel(gochannel.Config{}, watermill.NewSlogLogger(logger)),
		logger: logger,
	}
}

func (b *Bus) Publish(event Event) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	return b.pubSub.Publish(string(event.Type), msg)
}

// Subscribe returns a channel of decoded events for the given type. The
// channel closes when ctx is cancelled or the bus is closed. Undecodable
// messages are logged and dropped.
func (b *Bus) Subscribe(ctx context.Context, eventType EventType) (<-chan Event, error) {
	messages, err := b.pubSub.Subscribe(ctx, string(eventType))
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", eventType, err)
	}

	out := make(chan Event)
	go func() {
		defer close(out)
		for msg := range messages {
			var event Event
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				b.logger.Warn("dropping undecodable event",
					"topic", string(eventType), "error", err)
				msg.Ack()
				continue
			}
			msg.Ack()

			select {
			case out <- event:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (b *Bus) Close() error {
	return b.pubSub.Close()
}
