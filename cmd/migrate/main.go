package main

import (
	"flag"
	"fmt"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/tradesim/venue-sim/config"
	"github.com/tradesim/venue-sim/pkg/infra"
)

func main() {
	var configFile string
	flag.StringVar(&configFile, "config-file", "", "Specify config file path")
	flag.Parse()

	cfg, err := config.Load(configFile)
	if err != nil {
		panic(err)
	}

	fmt.Println("Migrating...")
	db, err := infra.ConnectAndMigrate(cfg.VenueDB, "file://migration/sql")
	if err != nil {
		panic(err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close() // nolint
	}
	fmt.Println("Migration done.")
}
