package messaging

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// LogBroker writes published messages to the log. It stands in for Redis
// when no broker is configured.
type LogBroker struct {
	logger *zerolog.Logger
}

func NewLogBroker(logger *zerolog.Logger) *LogBroker {
	return &LogBroker{logger: logger}
}

func (b *LogBroker) Publish(_ context.Context, channel string, payload []byte) error {
	b.logger.Info().Str("channel", channel).RawJSON("message", payload).Msg("change published")
	return nil
}

func (b *LogBroker) Subscribe(context.Context, string) (<-chan []byte, error) {
	return nil, errors.New("log broker does not support subscriptions")
}

func (b *LogBroker) Ping(context.Context) error { return nil }

func (b *LogBroker) Close() error { return nil }
