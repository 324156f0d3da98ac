package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Topic carries all user-facing notifications.
const Topic = "notifications"

const levelMetadataKey = "level"

// Bus is a Notifier backed by an in-process watermill pub/sub channel. The
// UI layer subscribes once and renders whatever arrives; publishers never
// block on delivery.
type Bus struct {
	pubSub *gochannel.GoChannel
	logger *slog.Logger
}

// NewBus creates a notification bus with an in-memory channel.
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}

	pubSub := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer:            1000,
			Persistent:                     false,
			BlockPublishUntilSubscriberAck: false,
		},
		watermill.NewSlogLogger(logger),
	)

	return &Bus{
		pubSub: pubSub,
		logger: logger.With("module", "notify"),
	}
}

// Success publishes a success notification.
func (b *Bus) Success(ctx context.Context, msg string) {
	b.publish(ctx, LevelSuccess, msg)
}

// Error publishes an error notification.
func (b *Bus) Error(ctx context.Context, msg string) {
	b.publish(ctx, LevelError, msg)
}

func (b *Bus) publish(_ context.Context, level Level, text string) {
	notification := Notification{
		Level:   level,
		Message: text,
		At:      time.Now().UTC(),
	}

	payload, err := json.Marshal(notification)
	if err != nil {
		b.logger.Error("failed to encode notification", "error", err)

		return
	}

	msg := message.NewMessage("msg-"+watermill.NewULID(), payload)
	msg.Metadata.Set(levelMetadataKey, string(level))

	if err := b.pubSub.Publish(Topic, msg); err != nil {
		b.logger.Error("failed to publish notification", "error", err)
	}
}

// Subscribe feeds every notification to the handler until the context ends.
func (b *Bus) Subscribe(ctx context.Context, handler func(Notification)) error {
	messages, err := b.pubSub.Subscribe(ctx, Topic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			var notification Notification
			if err := json.Unmarshal(msg.Payload, &notification); err != nil {
				b.logger.Error("failed to decode notification", "error", err)
				msg.Nack()

				continue
			}

			handler(notification)
			msg.Ack()
		}
	}()

	return nil
}

// Close shuts the underlying channel down.
func (b *Bus) Close() error {
	return b.pubSub.Close()
}
