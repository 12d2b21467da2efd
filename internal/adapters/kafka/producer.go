package kafka

import (
	"context"
	"encoding/json"

	"poll-service/internal/config"
	"poll-service/internal/vote"

	"github.com/IBM/sarama"
)

// Producer publishes vote events through a sarama sync producer. It
// implements vote.EventPublisher.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewProducer(cfg *config.KafkaConfig) (*Producer, error) {
	saramaCfg := sarama.NewConfig()
	saramaCfg.Producer.RequiredAcks = sarama.WaitForAll
	saramaCfg.Producer.Retry.Max = 5
	saramaCfg.Producer.Return.Successes = true
	saramaCfg.Producer.Compression = sarama.CompressionSnappy
	saramaCfg.Producer.Partitioner = sarama.NewHashPartitioner
	saramaCfg.Version = sarama.V2_0_0_0
	saramaCfg.ClientID = "poll-service"

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaCfg)
	if err != nil {
		return nil, err
	}

	return &Producer{producer: producer, topic: cfg.Topic}, nil
}

func (p *Producer) Publish(_ context.Context, event vote.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	// Keying by user UUID keeps one user's events on one partition.
	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.UserUUID),
		Value: sarama.ByteEncoder(payload),
	})
	return err
}

func (p *Producer) Close() error {
	return p.producer.Close()
}
