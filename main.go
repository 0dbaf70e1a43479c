package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nstehr/vimy/arena-core/agent"
	"github.com/nstehr/vimy/arena-core/config"
	"github.com/nstehr/vimy/arena-core/model"
	"github.com/nstehr/vimy/arena-core/sim"
	"github.com/nstehr/vimy/arena-core/telemetry"
)

const banner = `
 █████╗ ██████╗ ███████╗███╗   ██╗ █████╗
██╔══██╗██╔══██╗██╔════╝████╗  ██║██╔══██╗
███████║██████╔╝█████╗  ██╔██╗ ██║███████║
██╔══██║██╔══██╗██╔══╝  ██║╚██╗██║██╔══██║
██║  ██║██║  ██║███████╗██║ ╚████║██║  ██║
╚═╝  ╚═╝╚═╝  ╚═╝╚══════╝╚═╝  ╚═══╝╚═╝  ╚═╝

Per-Tick Unit Decision Engine`

func main() {
	configPath := flag.String("config", "", "YAML file overriding the embedded defaults")
	ticks := flag.Int("ticks", 1500, "maximum ticks to simulate")
	outDir := flag.String("out", "", "directory for CSV telemetry (disabled if empty)")
	compress := flag.Bool("compress", false, "zstd-compress telemetry files")
	waveTick := flag.Int("wave-tick", 300, "tick at which an enemy wave appears (0 disables)")
	waveSize := flag.Int("wave-size", 4, "creeps in the enemy wave")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "invalid -log-level %q: %v\n", *logLevel, err)
		os.Exit(2)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	fmt.Println(banner)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "path", *configPath, "error", err)
		os.Exit(1)
	}

	rec, err := telemetry.NewRecorder(*outDir, *compress)
	if err != nil {
		slog.Error("failed to open telemetry", "dir", *outDir, "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := rec.Close(); err != nil {
			slog.Error("failed to close telemetry", "error", err)
		}
	}()
	if err := rec.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	arena := sim.Demo(cfg)
	ag, err := agent.New(arena, cfg)
	if err != nil {
		slog.Error("failed to start agent", "error", err)
		os.Exit(1)
	}
	slog.Info("starting run", "ticks", *ticks, "objective", ag.Win, "telemetry", *outDir)

	run(ctx, arena, ag, rec, *ticks, *waveTick, *waveSize)
}

func run(ctx context.Context, arena *sim.Arena, ag *agent.Agent, rec *telemetry.Recorder, ticks, waveTick, waveSize int) {
	wave := []model.Part{model.Move, model.Move, model.Attack, model.Attack}
	for i := 0; i < ticks; i++ {
		select {
		case <-ctx.Done():
			slog.Info("interrupted", "tick", arena.CurrentTick())
			return
		default:
		}

		if waveTick > 0 && arena.CurrentTick() == waveTick {
			ids := arena.EnemyWave(waveSize, wave)
			slog.Info("enemy wave arrived", "tick", waveTick, "size", len(ids))
		}

		report := ag.Tick()
		if err := rec.Record(report, arena.Orders()); err != nil {
			slog.Error("telemetry write failed", "error", err)
		}
		arena.Step()

		if arena.Won() {
			slog.Info("win objective completed", "tick", report.Tick, "units", report.Units)
			return
		}
	}
	slog.Info("tick limit reached", "ticks", ticks, "units", ag.Units.Len(), "events", len(ag.Events()))
}
