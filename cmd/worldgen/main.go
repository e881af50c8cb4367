// Command worldgen generates a world, stores it, and optionally exports the
// map as GeoJSON.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"

	"github.com/talgya/worldforge/internal/config"
	"github.com/talgya/worldforge/internal/logs"
	"github.com/talgya/worldforge/internal/persistence"
	"github.com/talgya/worldforge/internal/world"
)

func main() {
	fs := pflag.NewFlagSet("worldgen", pflag.ExitOnError)
	configPath := fs.String("config", "", "path to a YAML config file")
	fs.Int("grain", 0, "number of tessellation sites (10-500)")
	fs.Int("factions", 0, "number of continents/factions (2-20)")
	fs.Int64("seed", 0, "random seed (0 = random)")
	fs.String("owner", "", "owner recorded on the world")
	fs.String("db", "", "SQLite database path")
	fs.String("log-file", "", "rotated JSON log file")
	fs.String("log-level", "", "log level (debug, info, warn, error)")
	geojsonPath := fs.String("geojson", "", "write the map as GeoJSON to this path")
	list := fs.Bool("list", false, "list stored worlds and exit")
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(*configPath, fs)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := logs.Init("worldgen", cfg.Log)
	defer logger.Sync()

	if err := run(cfg, *geojsonPath, *list); err != nil {
		slog.Error("worldgen failed", "error", err)
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg config.Config, geojsonPath string, list bool) error {
	// ── Database ──────────────────────────────────────────────────────
	if dir := filepath.Dir(cfg.Store.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}
	db, err := persistence.Open(cfg.Store.Path)
	if err != nil {
		return err
	}
	defer db.Close()
	slog.Info("database opened", "path", cfg.Store.Path)

	if list {
		return printWorlds(db, cfg.Generation.Owner)
	}

	// ── Generation ────────────────────────────────────────────────────
	w, err := generate(cfg)
	if err != nil {
		return err
	}

	if err := db.SaveWorld(w); err != nil {
		return fmt.Errorf("save world: %w", err)
	}

	// ── Export ────────────────────────────────────────────────────────
	if geojsonPath != "" {
		data, err := json.Marshal(w.FeatureCollection())
		if err != nil {
			return fmt.Errorf("encode geojson: %w", err)
		}
		if err := os.WriteFile(geojsonPath, data, 0644); err != nil {
			return fmt.Errorf("write geojson: %w", err)
		}
		slog.Info("geojson written", "path", geojsonPath, "size", humanize.Bytes(uint64(len(data))))
	}

	fmt.Printf("\nWorld %s: %s land provinces of %s, %d factions, seed %d.\n",
		w.ID, humanize.Comma(int64(w.LandCount())), humanize.Comma(int64(len(w.Provinces))),
		len(w.Factions), w.Seed)
	for _, f := range w.Factions {
		fmt.Printf("  %s (%s)\n", f.Name, f.ID)
	}
	return nil
}

// generate runs the generator off the calling goroutine so the configured
// timeout can be enforced. The generator itself cannot be cancelled; a late
// result is discarded.
func generate(cfg config.Config) (*world.World, error) {
	ctx := context.Background()
	if cfg.Generation.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Generation.Timeout)
		defer cancel()
	}

	type result struct {
		w   *world.World
		err error
	}
	done := make(chan result, 1)
	go func() {
		w, err := world.Generate(cfg.GenConfig())
		done <- result{w, err}
	}()

	select {
	case r := <-done:
		var sites *world.InsufficientSitesError
		if errors.As(r.err, &sites) {
			return nil, fmt.Errorf("grain too low to tessellate: %w", r.err)
		}
		return r.w, r.err
	case <-ctx.Done():
		return nil, fmt.Errorf("generation too slow (limit %s): %w", cfg.Generation.Timeout, ctx.Err())
	}
}

func printWorlds(db *persistence.DB, owner string) error {
	worlds, err := db.ListWorlds(owner)
	if err != nil {
		return fmt.Errorf("list worlds: %w", err)
	}
	for _, s := range worlds {
		fmt.Printf("%s  owner=%q  land=%d/%d  factions=%d  seed=%d  game_over=%v\n",
			s.ID, s.Owner, s.Land, s.Provinces, s.Factions, s.Seed, s.GameOver)
	}
	fmt.Printf("%s worlds\n", humanize.Comma(int64(len(worlds))))
	return nil
}
