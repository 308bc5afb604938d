package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/wldnjs95/choreoflow/internal/choreo"
	"github.com/wldnjs95/choreoflow/internal/choreo/monitor"
	"github.com/wldnjs95/choreoflow/internal/choreo/scenario"
	sqlite "github.com/wldnjs95/choreoflow/internal/choreo/storage/sqlite"
	"github.com/wldnjs95/choreoflow/internal/config"
	"github.com/wldnjs95/choreoflow/internal/version"
)

var (
	listen      = flag.String("listen", ":8080", "HTTP listen address")
	dbFile      = flag.String("db", "choreo_runs.db", "Path to the SQLite run database (empty disables persistence)")
	tuningFile  = flag.String("config", "", "Path to a JSON tuning overlay applied on top of the defaults")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

// Main
func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}
	if *listen == "" {
		log.Fatal("HTTP listen address is required")
	}

	cfg := choreo.DefaultConfig()
	if *tuningFile != "" {
		tc, err := config.LoadTuningConfig(*tuningFile)
		if err != nil {
			log.Fatalf("Failed to load tuning config: %v", err)
		}
		if cfg, err = tc.Apply(cfg); err != nil {
			log.Fatalf("Invalid tuning config: %v", err)
		}
		log.Printf("Applied tuning overlay from %s", *tuningFile)
	}

	var db *sqlite.DB
	if *dbFile != "" {
		var err error
		db, err = sqlite.Open(*dbFile)
		if err != nil {
			log.Fatalf("Failed to open run database: %v", err)
		}
		defer db.Close()

		if err := db.MigrateUp(); err != nil {
			log.Fatalf("Failed to migrate run database: %v", err)
		}
	} else {
		log.Println("Run persistence disabled (set -db to enable)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("%s: %d strategies, %d builtin scenarios",
		version.String(), len(choreo.AllStrategies()), len(scenario.Builtin()))

	server := monitor.NewWebServer(monitor.WebServerConfig{
		Address:    *listen,
		BaseConfig: cfg,
		DB:         db,
	})
	if err := server.Start(ctx); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	log.Printf("Graceful shutdown complete")
}
