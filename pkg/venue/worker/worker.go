package worker

import (
	"context"
	"encoding/json"
	"errors"

	_ "github.com/lib/pq"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	kafkawrapper "github.com/tradesim/venue-sim/pkg/kafka_wrapper"
	"github.com/tradesim/venue-sim/pkg/logging"
	"github.com/tradesim/venue-sim/pkg/venue/model"
	"github.com/tradesim/venue-sim/pkg/venue/repo"
)

// Worker drains the trade feed into Postgres. It is the only writer of the
// trade_events table; the engine itself never blocks on the database.
type Worker struct {
	trades repo.ITradeEvent
	log    *logging.Logger
}

func NewWorker(r repo.IRepo, log *logging.Logger) *Worker {
	return &Worker{
		trades: r.TradeEvent(),
		log:    log,
	}
}

// RunNATSConsumer pulls trade events from a durable JetStream consumer until
// the context ends.
func (w *Worker) RunNATSConsumer(ctx context.Context, js nats.JetStreamContext, subject, durable string) error {
	sub, err := js.PullSubscribe(subject, durable)
	if err != nil {
		return err
	}

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		msgs, err := sub.Fetch(10, nats.Context(ctx))
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return ctx.Err()
			}
			if errors.Is(err, nats.ErrTimeout) {
				continue
			}
			w.log.Error(ctx, "fetch trade events", zap.Error(err))
			continue
		}

		for _, msg := range msgs {
			var ev model.TradeEvent
			if err := json.Unmarshal(msg.Data, &ev); err != nil {
				w.log.Error(ctx, "unmarshal trade event", zap.Error(err))
				_ = msg.Ack() // poison message, drop it
				continue
			}
			if err := w.handleEvent(ctx, &ev); err != nil {
				w.log.Error(ctx, "persist trade event",
					zap.String("event_id", ev.EventID), zap.Error(err))
				continue // redelivered by JetStream
			}
			_ = msg.Ack()
		}
	}
}

// RunKafkaConsumer drains a Kafka trade topic in batches.
func (w *Worker) RunKafkaConsumer(ctx context.Context, cg *kafkawrapper.ConsumerGroup) error {
	return cg.Run(ctx, func(ctx context.Context, msgs []kafkawrapper.Message) error {
		events := make([]*model.TradeEvent, 0, len(msgs))
		for _, msg := range msgs {
			var ev model.TradeEvent
			if err := json.Unmarshal(msg.Value, &ev); err != nil {
				w.log.Error(ctx, "unmarshal trade event", zap.Error(err))
				continue
			}
			events = append(events, &ev)
		}
		_, err := w.trades.BulkCreate(ctx, events)
		return err
	})
}

func (w *Worker) handleEvent(ctx context.Context, ev *model.TradeEvent) error {
	_, err := w.trades.Create(ctx, ev)
	return err
}
