package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/tradesim/venue-sim/config"
	postgreswrapper "github.com/tradesim/venue-sim/pkg/infra/postgres"
	kafkawrapper "github.com/tradesim/venue-sim/pkg/kafka_wrapper"
	"github.com/tradesim/venue-sim/pkg/logging"
	"github.com/tradesim/venue-sim/pkg/venue/repo"
	"github.com/tradesim/venue-sim/pkg/venue/worker"
)

func main() {
	var configFile string
	flag.StringVar(&configFile, "config-file", "", "Specify config file path")
	flag.Parse()

	cfg, err := config.Load(configFile)
	if err != nil {
		panic(err)
	}

	log := logging.NewLogger(logging.ParseLevel(cfg.LogLevel))
	defer log.Sync() // nolint

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		cancel()
	}()

	db, err := postgreswrapper.InitPostgres(cfg.VenueDB)
	if err != nil {
		log.Error(ctx, "init db", zap.Error(err))
		panic(err)
	}

	w := worker.NewWorker(repo.NewRepo(db), log)

	switch cfg.Feed {
	case "nats":
		nc, err := nats.Connect(cfg.Nats.URL)
		if err != nil {
			log.Error(ctx, "connect nats", zap.Error(err))
			panic(err)
		}
		defer nc.Close()

		js, err := nc.JetStream()
		if err != nil {
			log.Error(ctx, "jetstream", zap.Error(err))
			panic(err)
		}

		// subject.> matches the per-symbol publishing scheme
		err = w.RunNATSConsumer(ctx, js, cfg.Nats.Subject+".>", "trade_worker")
		if err != nil && ctx.Err() == nil {
			log.Error(ctx, "nats consumer", zap.Error(err))
		}
	case "kafka":
		cg := kafkawrapper.NewConsumerGroup(kafkawrapper.ConsumerConfig{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
			GroupID: "trade_worker",
		})
		defer cg.Close() // nolint

		if err := w.RunKafkaConsumer(ctx, cg); err != nil && ctx.Err() == nil {
			log.Error(ctx, "kafka consumer", zap.Error(err))
		}
	default:
		log.Error(ctx, "worker needs feed set to nats or kafka")
		panic("worker needs feed set to nats or kafka")
	}
}
