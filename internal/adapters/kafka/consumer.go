package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"poll-service/internal/config"
	"poll-service/internal/vote"

	kafkago "github.com/segmentio/kafka-go"
)

// Consumer reads committed vote events and re-warms the tally cache for
// each affected question. It is the read side of the vote event stream;
// the HTTP path never depends on it.
type Consumer struct {
	reader      *kafkago.Reader
	voteService vote.Service
}

func NewConsumer(cfg *config.KafkaConfig, voteService vote.Service) *Consumer {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.Topic,
		GroupID: cfg.GroupID,
	})
	return &Consumer{reader: reader, voteService: voteService}
}

// Run consumes until the context is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		message, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		var event vote.Event
		if err := json.Unmarshal(message.Value, &event); err != nil {
			slog.Warn("Skipping malformed vote event", "offset", message.Offset, "error", err)
			continue
		}

		if _, err := c.voteService.RefreshResults(ctx, event.QuestionCode); err != nil {
			slog.Warn("Failed to refresh tally from vote event",
				"question_code", event.QuestionCode, "error", err)
			continue
		}
		slog.Debug("Refreshed tally cache", "question_code", event.QuestionCode)
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
