package feed

import (
	"context"

	kafkawrapper "github.com/tradesim/venue-sim/pkg/kafka_wrapper"
	"github.com/tradesim/venue-sim/pkg/venue/model"
)

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// KafkaPublisher publishes trade events to a Kafka topic keyed by symbol, so
// per-symbol ordering survives partitioning.
type KafkaPublisher struct {
	producer *kafkawrapper.Producer
	topic    string
}

func NewKafkaPublisher(cfg *KafkaConfig) *KafkaPublisher {
	return &KafkaPublisher{
		producer: kafkawrapper.NewProducer(kafkawrapper.ProducerConfig{Brokers: cfg.Brokers}),
		topic:    cfg.Topic,
	}
}

func (p *KafkaPublisher) PublishTrades(ctx context.Context, events []*model.TradeEvent) error {
	for _, ev := range events {
		if err := p.producer.PublishJSON(ctx, p.topic, ev.Symbol, ev); err != nil {
			return err
		}
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
