package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	postgreswrapper "github.com/tradesim/venue-sim/pkg/infra/postgres"
	rediswrapper "github.com/tradesim/venue-sim/pkg/infra/redis"
	"github.com/tradesim/venue-sim/pkg/venue/feed"
	riskrule "github.com/tradesim/venue-sim/pkg/venue/risk_rule"
)

type AppConfig struct {
	ServiceName string `yaml:"service_name"`
	LogLevel    string `yaml:"log_level"`
	HTTPAddr    string `yaml:"http_addr"`

	VenueDB *postgreswrapper.PostgresConfig `yaml:"venue_db"`
	Redis   *rediswrapper.RedisConfig       `yaml:"redis"`

	// Feed selects the trade feed backend: "nats", "kafka" or empty for none.
	Feed  string            `yaml:"feed"`
	Nats  *feed.NATSConfig  `yaml:"nats"`
	Kafka *feed.KafkaConfig `yaml:"kafka"`

	Fix  *FixConfig  `yaml:"fix"`
	Risk *RiskConfig `yaml:"risk"`
}

type FixConfig struct {
	Enabled        bool   `yaml:"enabled"`
	ConfigFilepath string `yaml:"config_filepath"`
}

type RiskConfig struct {
	TickSizeFile string                        `yaml:"tick_size_file"`
	PriceBands   map[string]riskrule.PriceBand `yaml:"price_bands"`
}

// Load reads config from filePath, falling back to CONFIG_FILE. Environment
// variables in the file are expanded before parsing.
func Load(filePath string) (*AppConfig, error) {
	if len(filePath) == 0 {
		filePath = os.Getenv("CONFIG_FILE")
	}

	configBytes, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", filePath, err)
	}
	configBytes = []byte(os.ExpandEnv(string(configBytes)))

	cfg := &AppConfig{}
	if err := yaml.Unmarshal(configBytes, cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", filePath, err)
	}

	return cfg, nil
}
