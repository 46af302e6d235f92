package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/tribebot/tribebot-go/internal/adapters/metrics"
	"github.com/tribebot/tribebot-go/internal/adapters/persistence"
	"github.com/tribebot/tribebot-go/internal/application/planner"
	"github.com/tribebot/tribebot-go/internal/domain/allocation"
	"github.com/tribebot/tribebot-go/internal/domain/logistics"
	"github.com/tribebot/tribebot-go/internal/domain/shared"
	"github.com/tribebot/tribebot-go/internal/domain/strategy"
	"github.com/tribebot/tribebot-go/internal/infrastructure/config"
	"github.com/tribebot/tribebot-go/internal/infrastructure/database"
	"github.com/tribebot/tribebot-go/internal/infrastructure/pidfile"
)

func main() {
	forceFlag := flag.Bool("force", false, "Kill any existing daemon and start a new one")
	configFlag := flag.String("config", "", "Path to config file")
	flag.Parse()

	fmt.Println("TribeBot Daemon v0.1.0")
	fmt.Println("======================")

	fmt.Println("Loading configuration...")
	cfg := config.MustLoadConfig(*configFlag)

	// Acquire PID file lock to prevent multiple instances
	fmt.Printf("Acquiring PID file lock: %s\n", cfg.Daemon.PIDFile)
	pf := pidfile.New(cfg.Daemon.PIDFile)

	if err := pf.Acquire(); err != nil {
		if *forceFlag {
			fmt.Println("Force mode enabled - attempting to kill existing daemon...")
			if killErr := pf.KillExisting(); killErr != nil {
				log.Fatalf("Failed to kill existing daemon: %v", killErr)
			}
			fmt.Println("Existing daemon killed")

			if err := pf.Acquire(); err != nil {
				log.Fatalf("Failed to acquire PID file lock after killing existing daemon: %v", err)
			}
		} else {
			log.Fatalf("Failed to acquire PID file lock: %v\nUse --force to kill the existing daemon", err)
		}
	}

	defer func() {
		if err := pf.Release(); err != nil {
			log.Printf("Warning: failed to release PID file: %v", err)
		}
	}()
	fmt.Println("PID file lock acquired")

	if err := run(cfg); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Database connection for the route cooldown ledger
	fmt.Printf("Connecting to %s database...\n", cfg.Database.Type)
	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close(db)
	fmt.Println("Database connected")

	ledger := persistence.NewGormRouteLedger(db)

	// 2. Metrics endpoint (optional)
	var tickMetrics planner.Metrics
	if cfg.Daemon.MetricsAddress != "" {
		metrics.InitRegistry()
		collector := metrics.NewPlannerMetricsCollector()
		if err := collector.Register(metrics.GetRegistry()); err != nil {
			return fmt.Errorf("failed to register metrics: %w", err)
		}
		tickMetrics = collector

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
		server := &http.Server{Addr: cfg.Daemon.MetricsAddress, Handler: mux}
		go func() {
			fmt.Printf("Serving metrics on %s/metrics\n", cfg.Daemon.MetricsAddress)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("Metrics server error: %v", err)
			}
		}()
		defer server.Close()
	}

	// 3. Planning service
	settings := cfg.Engine.Logistics.ToSettings()
	classes := allocation.DefaultUnitClasses()
	arbiter := strategy.NewArbiter(
		allocation.NewAllocator(classes),
		allocation.NewAllocator(classes),
	)
	coordinator, err := logistics.NewCoordinator(settings, ledger, shared.NewRealClock())
	if err != nil {
		return fmt.Errorf("invalid logistics settings: %w", err)
	}
	logger := log.New(os.Stdout, "daemon: ", log.LstdFlags)
	service, err := planner.NewService(arbiter, coordinator, classes, logger, tickMetrics)
	if err != nil {
		return err
	}

	// 4. Tick loop. The limiter paces ticks at the configured interval and
	// tolerates slow ticks without drifting.
	limiter := rate.NewLimiter(rate.Every(cfg.Daemon.TickInterval), 1)
	fmt.Printf("Planning every %s from %s\n", cfg.Daemon.TickInterval, cfg.Daemon.SnapshotPath)

	for {
		if err := limiter.Wait(ctx); err != nil {
			fmt.Println("Shutting down")
			return nil
		}
		if err := tick(ctx, service, cfg, logger); err != nil {
			logger.Printf("tick failed: %v", err)
		}
	}
}

// tick runs one planning cycle: read snapshot, plan, write actions, and
// record dispatched routes unless in dry-run mode.
func tick(ctx context.Context, service *planner.Service, cfg *config.Config, logger *log.Logger) error {
	data, err := os.ReadFile(cfg.Daemon.SnapshotPath)
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snapshot planner.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return fmt.Errorf("failed to parse snapshot: %w", err)
	}

	started := time.Now()
	result, err := service.PlanTick(ctx, &snapshot)
	if err != nil {
		return err
	}

	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode actions: %w", err)
	}
	if err := os.WriteFile(cfg.Daemon.ActionsPath, append(encoded, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write actions: %w", err)
	}

	if !cfg.Engine.Logistics.DryRun {
		var shipments []logistics.Shipment
		for _, action := range result.Actions {
			if shipment, ok := action.ToShipment(); ok {
				shipments = append(shipments, shipment)
			}
		}
		if err := service.Coordinator().RecordDispatched(shipments); err != nil {
			return fmt.Errorf("failed to record dispatched routes: %w", err)
		}
	}

	logger.Printf("tick done: strategy=%s actions=%d loot=%d elapsed=%s",
		result.Strategy, len(result.Actions), result.RealizedLoot, time.Since(started).Round(time.Millisecond))
	return nil
}
