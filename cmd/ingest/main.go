// Command ingest runs one capture cycle from the command line: scrape
// the configured leaderboard page, persist today's snapshot, and update
// the derived records. With -rebuild it only rebuilds the user index
// from the snapshots already on disk.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/fatih/color"

	app "github.com/okian/scorevault/internal/app"
	"github.com/okian/scorevault/internal/config"
	"github.com/okian/scorevault/pkg/logger"
)

func main() {
	var (
		sourceURL = flag.String("source", "", "leaderboard page URL (overrides config)")
		dataDir   = flag.String("data", "", "archive directory (overrides config)")
		rebuild   = flag.Bool("rebuild", false, "only rebuild the user index, no scrape")
	)
	flag.Parse()

	if err := run(*sourceURL, *dataDir, *rebuild); err != nil {
		color.Red("✗ %v", err)
		os.Exit(1)
	}
}

func run(sourceURL, dataDir string, rebuild bool) error {
	if err := logger.Init(); err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if sourceURL != "" {
		cfg.SourceURL = sourceURL
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	_ = logger.SetLevelString(cfg.LogLevel)

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return err
	}

	svc := app.New(
		app.WithDataDir(cfg.DataDir),
		app.WithSourceURL(cfg.SourceURL),
		app.WithSchedule(""), // one shot, no scheduler
		app.WithLocation(loc),
		app.WithAllTimeSize(cfg.AllTimeSize),
		app.WithFetchTimeout(time.Duration(cfg.FetchTimeoutSec)*time.Second),
		app.WithMaxConcurrentReads(cfg.MaxConcurrentReads),
	)
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	start := time.Now()
	if rebuild {
		color.Cyan("rebuilding user index in %s...", cfg.DataDir)
		if err := svc.RebuildIndex(ctx); err != nil {
			return err
		}
		color.Green("✓ user index rebuilt in %s", time.Since(start).Round(time.Millisecond))
		return nil
	}

	color.Cyan("capturing %s into %s...", cfg.SourceURL, cfg.DataDir)
	if err := svc.Ingest(ctx); err != nil {
		return err
	}
	color.Green("✓ capture finished in %s", time.Since(start).Round(time.Millisecond))
	return nil
}
