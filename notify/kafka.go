package notify

import (
	"context"
	"fmt"

	"newsfeed/types"

	"github.com/IBM/sarama"
)

// KafkaConfig holds Kafka producer configuration
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// KafkaNotifier publishes one message per new article, keyed by article ID
type KafkaNotifier struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafkaNotifier connects a synchronous producer to the brokers
func NewKafkaNotifier(cfg KafkaConfig) (*KafkaNotifier, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V3_6_0_0
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return NewKafkaNotifierWithProducer(producer, cfg.Topic), nil
}

// NewKafkaNotifierWithProducer wraps an existing producer
func NewKafkaNotifierWithProducer(producer sarama.SyncProducer, topic string) *KafkaNotifier {
	return &KafkaNotifier{producer: producer, topic: topic}
}

// Announce implements Notifier
func (k *KafkaNotifier) Announce(ctx context.Context, feedName string, articles []types.Article) error {
	if len(articles) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msgs := make([]*sarama.ProducerMessage, 0, len(articles))
	for _, a := range articles {
		payload, err := encode(feedName, a)
		if err != nil {
			return fmt.Errorf("failed to encode article %s: %w", a.Link, err)
		}
		msgs = append(msgs, &sarama.ProducerMessage{
			Topic: k.topic,
			Key:   sarama.StringEncoder(a.ID()),
			Value: sarama.ByteEncoder(payload),
		})
	}

	if err := k.producer.SendMessages(msgs); err != nil {
		return fmt.Errorf("failed to publish to kafka topic %s: %w", k.topic, err)
	}
	return nil
}

// Close implements Notifier
func (k *KafkaNotifier) Close() error {
	return k.producer.Close()
}
