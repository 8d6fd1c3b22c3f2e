package eventbus

import (
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Bus is the in-process pub/sub used to fan session changes out to the UI
// layer. Publishing is fire-and-forget; the scoring engine never depends on
// its subscribers.
type Bus struct {
	channel *gochannel.GoChannel
}

// New creates the in-process event bus.
func New(logger *slog.Logger) *Bus {
	return &Bus{
		channel: gochannel.NewGoChannel(
			gochannel.Config{
				OutputChannelBuffer: 64,
			},
			watermill.NewSlogLogger(logger),
		),
	}
}

// Publisher returns the publish side of the bus.
func (b *Bus) Publisher() message.Publisher {
	return b.channel
}

// Subscriber returns the subscribe side of the bus.
func (b *Bus) Subscriber() message.Subscriber {
	return b.channel
}

// Close shuts the bus down and closes all subscriber channels.
func (b *Bus) Close() error {
	return b.channel.Close()
}
