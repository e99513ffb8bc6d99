package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cobalthex/dyingandmore/internal/config"
	"github.com/cobalthex/dyingandmore/internal/core/event"
	coresys "github.com/cobalthex/dyingandmore/internal/core/system"
	"github.com/cobalthex/dyingandmore/internal/data"
	"github.com/cobalthex/dyingandmore/internal/geom"
	"github.com/cobalthex/dyingandmore/internal/pathfind"
	"github.com/cobalthex/dyingandmore/internal/persist"
	"github.com/cobalthex/dyingandmore/internal/scripting"
	"github.com/cobalthex/dyingandmore/internal/system"
	"github.com/cobalthex/dyingandmore/internal/world"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(mapName string, mapID int) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m              mapsim  v0.1.0               \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mmap:\033[0m %s \033[90m(id: %d)\033[0m\n\n", mapName, mapID)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Simulation ─────────────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/mapsim.toml"
	if p := os.Getenv("MAPSIM_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	// 3. Load data
	maps, err := data.LoadMapData(cfg.Data.MapList, cfg.Data.TileDir)
	if err != nil {
		return fmt.Errorf("load map data: %w", err)
	}
	def := maps.Get(cfg.Simulation.MapID)
	if def == nil {
		return fmt.Errorf("map %d not in %s", cfg.Simulation.MapID, cfg.Data.MapList)
	}
	printBanner(def.Info.Name, def.Info.MapID)

	printSection("data")
	printStat("maps", maps.Count())

	classes, err := data.LoadClassTable(cfg.Data.Classes)
	if err != nil {
		return fmt.Errorf("load classes: %w", err)
	}
	printStat("classes", classes.Count())

	spawns, err := data.LoadSpawnList(cfg.Data.Spawns, def.Info.MapID)
	if err != nil {
		return fmt.Errorf("load spawn list: %w", err)
	}

	luaEngine, err := scripting.NewEngine(cfg.Data.Scripts, log)
	if err != nil {
		return fmt.Errorf("lua engine: %w", err)
	}
	defer luaEngine.Close()
	printOK("lua scripts loaded")

	finder, err := pathfind.NewFinder(def, pathfind.CacheConfig{
		NumCounters: cfg.Pathfinding.CacheCounters,
		MaxCost:     cfg.Pathfinding.CacheMaxCost,
	})
	if err != nil {
		return fmt.Errorf("pathfinder: %w", err)
	}
	defer finder.Close()

	// 4. Instantiate the map
	bus := event.NewBus()
	m, err := world.NewMap(def, world.Options{
		SectorSize: cfg.Simulation.SectorSize,
		Seed:       cfg.Simulation.Seed,
		Classes:    classes,
		Behaviors:  luaEngine.Behaviors(),
		Bus:        bus,
		Paths:      finder,
		Log:        log,
	})
	if err != nil {
		return fmt.Errorf("new map: %w", err)
	}

	spawned, err := populate(m, spawns, luaEngine.CommandResolver(), log)
	if err != nil {
		return fmt.Errorf("populate map: %w", err)
	}
	printStat("spawned", spawned)
	printStat("triggers", len(m.Triggers()))

	if cfg.View.Width > 0 && cfg.View.Height > 0 {
		m.SetView(geom.V(cfg.View.CenterX, cfg.View.CenterY), cfg.View.Width, cfg.View.Height)
	}
	if cfg.View.Follow != "" {
		m.SetViewTarget(cfg.View.Follow)
	}
	fmt.Println()

	// 5. Journal (optional)
	var journal *system.JournalSystem
	var repo *persist.JournalRepo
	if cfg.Journal.DSN != "" {
		printSection("journal")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		db, err := persist.NewDB(ctx, cfg.Journal, log)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		printOK("PostgreSQL connected")

		version, err := persist.RunMigrations(ctx, db.Pool, log)
		if err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		printOK(fmt.Sprintf("migrations applied (version %d)", version))
		fmt.Println()

		repo = persist.NewJournalRepo(db)
		journal = system.NewJournalSystem(m, bus, repo,
			def.Info.MapID, cfg.Journal.FlushInterval, cfg.Journal.WriteTimeout, log)
	}

	// 6. Create systems and register with runner
	runner := coresys.NewRunner()
	runner.Register(system.NewActivationSystem(m))
	runner.Register(system.NewEventDispatchSystem(bus))
	runner.Register(system.NewPhysicsSystem(m))
	runner.Register(system.NewEffectsSystem(m))
	runner.Register(system.NewTriggerSystem(m))
	runner.Register(system.NewSettleSystem(m))
	if journal != nil {
		runner.Register(journal)
	}
	runner.Register(system.NewCleanupSystem(m))

	// 7. Start simulation loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Simulation.TickRate)
	defer ticker.Stop()

	printSection("ready")
	printReady(fmt.Sprintf("simulation loop started (tick: %s)", cfg.Simulation.TickRate))
	fmt.Println()

	shutdown := func() {
		if journal != nil {
			journal.Flush()
			reportJournal(repo, def.Info.MapID, log)
		}
		log.Info("simulation stopped",
			zap.Uint64("ticks", runner.Ticks()),
			zap.Int("entities", m.EntityCount()))
	}

	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Simulation.TickRate)
			if cfg.Simulation.MaxTicks > 0 && runner.Ticks() >= cfg.Simulation.MaxTicks {
				log.Info("tick limit reached", zap.Uint64("max_ticks", cfg.Simulation.MaxTicks))
				shutdown()
				return nil
			}
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			shutdown()
			return nil
		}
	}
}

// populate spawns the initial entities, attaches children to their parents
// and places the map's triggers.
func populate(m *world.Map, list *data.SpawnList, resolve world.CommandResolver, log *zap.Logger) (int, error) {
	count := 0
	for _, s := range list.Spawns {
		inst := m.Spawn(s.Class, geom.V(s.X, s.Y), geom.V(s.FX, s.FY), geom.V(s.VX, s.VY), s.Name)
		if inst == nil {
			continue
		}
		count++
		if s.Parent == "" {
			continue
		}
		child, ok := inst.(*world.Entity)
		if !ok {
			log.Warn("only entities can be attached", zap.String("class", s.Class))
			continue
		}
		parent := m.FindByName(s.Parent)
		if parent == nil {
			log.Warn("spawn parent not found", zap.String("name", s.Name), zap.String("parent", s.Parent))
			continue
		}
		// Offsets are kept in the parent's frame.
		inv := geom.V(parent.Forward.X, -parent.Forward.Y)
		if err := m.Attach(child, parent, child.Position.Sub(parent.Position).Rotate(inv)); err != nil {
			return count, fmt.Errorf("attach %s to %s: %w", s.Name, s.Parent, err)
		}
	}

	for _, td := range list.Triggers {
		t, err := world.BuildTrigger(td, resolve)
		if err != nil {
			return count, err
		}
		m.AddTrigger(t)
	}
	return count, nil
}

// reportJournal logs the per-kind totals the journal holds for a map.
func reportJournal(repo *persist.JournalRepo, mapID int, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	counts, err := repo.CountByKind(ctx, mapID)
	if err != nil {
		log.Warn("journal summary failed", zap.Error(err))
		return
	}
	fields := []zap.Field{zap.Int("map_id", mapID)}
	for _, kind := range []string{"spawn", "destroy", "trigger", "collide", "fluid"} {
		fields = append(fields, zap.Int64(kind, counts[kind]))
	}
	log.Info("journal summary", fields...)
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	log, err := zapCfg.Build()
	if err != nil || cfg.File == "" {
		return log, err
	}

	// Tee a rotating JSON file alongside the console output.
	file := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
		}),
		level,
	)
	return log.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapcore.NewTee(c, file)
	})), nil
}
