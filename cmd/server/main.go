package main

import (
	"context"
	"flag"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/tradesim/venue-sim/config"
	"github.com/tradesim/venue-sim/pkg/api"
	postgreswrapper "github.com/tradesim/venue-sim/pkg/infra/postgres"
	rediswrapper "github.com/tradesim/venue-sim/pkg/infra/redis"
	"github.com/tradesim/venue-sim/pkg/logging"
	"github.com/tradesim/venue-sim/pkg/marketdata"
	"github.com/tradesim/venue-sim/pkg/venue"
	"github.com/tradesim/venue-sim/pkg/venue/feed"
	fixgateway "github.com/tradesim/venue-sim/pkg/venue/fix"
	"github.com/tradesim/venue-sim/pkg/venue/repo"
	riskrule "github.com/tradesim/venue-sim/pkg/venue/risk_rule"
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

	go func() {
		http.ListenAndServe("localhost:6060", nil) // nolint
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	var gateway venue.OrderGateway = venue.NopGateway{}
	var fixGateway *fixgateway.FixGateway
	if cfg.Fix != nil && cfg.Fix.Enabled {
		fixGateway = fixgateway.NewFixGateway(&fixgateway.FixGatewayConfig{
			ConfigFilepath: cfg.Fix.ConfigFilepath,
		})
		gateway = fixGateway
	}

	v := venue.NewVenue(&venue.Config{Logger: log}, gateway)
	if fixGateway != nil {
		fixGateway.AttachVenue(v)
	}

	if cfg.Risk != nil {
		if len(cfg.Risk.PriceBands) > 0 {
			v.AddRiskRule(riskrule.NewLimitPriceRule(cfg.Risk.PriceBands))
		}
		if cfg.Risk.TickSizeFile != "" {
			rule, err := riskrule.NewTickSizeRuleFromFile(cfg.Risk.TickSizeFile)
			if err != nil {
				log.Error(ctx, "load tick size rule", zap.Error(err))
				panic(err)
			}
			v.AddRiskRule(rule)
		}
	}

	switch cfg.Feed {
	case "nats":
		pub, err := feed.NewNATSPublisher(cfg.Nats)
		if err != nil {
			log.Error(ctx, "connect nats", zap.Error(err))
			panic(err)
		}
		defer pub.Close() // nolint
		v.SetFeed(pub)
	case "kafka":
		pub := feed.NewKafkaPublisher(cfg.Kafka)
		defer pub.Close() // nolint
		v.SetFeed(pub)
	}

	if cfg.VenueDB != nil {
		db, err := postgreswrapper.InitPostgres(cfg.VenueDB)
		if err != nil {
			log.Error(ctx, "init db", zap.Error(err))
			panic(err)
		}
		v.SetOrderRepo(repo.NewRepo(db).Order())
	}

	if cfg.Redis != nil {
		rdb, err := rediswrapper.InitRedis(cfg.Redis)
		if err != nil {
			log.Error(ctx, "connect redis", zap.Error(err))
			panic(err)
		}
		defer rdb.Close() // nolint
		v.SetMarketData(marketdata.NewCache(rdb, time.Hour))
	}

	if err := v.Start(ctx); err != nil {
		log.Error(ctx, "start venue", zap.Error(err))
		panic(err)
	}

	httpServer := api.NewServer(v, log)
	go func() {
		if err := httpServer.Start(cfg.HTTPAddr); err != nil {
			log.Error(ctx, "http server", zap.Error(err))
		}
	}()

	log.Info(ctx, "venue started",
		zap.String("service", cfg.ServiceName),
		zap.String("http_addr", cfg.HTTPAddr))

	<-sigs
	log.Info(ctx, "shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = httpServer.Shutdown(shutdownCtx)

	if fixGateway != nil {
		fixGateway.Stop()
	}
	v.Stop()
	cancel()
}
