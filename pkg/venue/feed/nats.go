package feed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/tradesim/venue-sim/pkg/venue/model"
)

type NATSConfig struct {
	URL     string `yaml:"url"`
	Stream  string `yaml:"stream"`
	Subject string `yaml:"subject"` // published as <subject>.<symbol>
}

// NATSPublisher publishes trade events to a JetStream stream, one message per
// trade, keyed by symbol in the subject.
type NATSPublisher struct {
	nc      *nats.Conn
	js      nats.JetStreamContext
	subject string
}

func NewNATSPublisher(cfg *NATSConfig) (*NATSPublisher, error) {
	nc, err := nats.Connect(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream context: %w", err)
	}

	if cfg.Stream != "" {
		_, err = js.AddStream(&nats.StreamConfig{
			Name:     cfg.Stream,
			Subjects: []string{cfg.Subject + ".>"},
		})
		if err != nil && err != nats.ErrStreamNameAlreadyInUse {
			nc.Close()
			return nil, fmt.Errorf("ensure stream: %w", err)
		}
	}

	return &NATSPublisher{nc: nc, js: js, subject: cfg.Subject}, nil
}

func (p *NATSPublisher) PublishTrades(ctx context.Context, events []*model.TradeEvent) error {
	for _, ev := range events {
		b, err := json.Marshal(ev)
		if err != nil {
			return err
		}
		subject := fmt.Sprintf("%s.%s", p.subject, ev.Symbol)
		if _, err := p.js.Publish(subject, b, nats.Context(ctx)); err != nil {
			return fmt.Errorf("publish trade %s: %w", ev.EventID, err)
		}
	}
	return nil
}

func (p *NATSPublisher) Close() error {
	p.nc.Close()
	return nil
}
