package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/podium/internal/adapters/http/api"
	"github.com/okian/podium/internal/adapters/render"
	app "github.com/okian/podium/internal/app"
	"github.com/okian/podium/internal/config"
	"github.com/okian/podium/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 30 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

func main() {
	var (
		serve      = flag.Bool("serve", false, "Run the upload web UI instead of a one-shot batch")
		duplicates = flag.Bool("duplicates", false, "Report athletes entered in multiple divisions and exit")
		topN       = flag.Int("top", 0, "Podium size per leaderboard (overrides config)")
		placedOnly = flag.Bool("placed-only", false, "Exclude rows without a numeric placement")
	)
	flag.Parse()

	if err := logger.Init(os.Stderr); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *topN > 0 {
		cfg.TopN = *topN
	}
	if *placedOnly {
		cfg.PlacedOnly = true
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := app.New(
		app.WithLogger(log),
		app.WithTopN(cfg.TopN),
		app.WithWorkers(cfg.Workers),
		app.WithDivisions(cfg.Divisions),
		app.WithCommentPrefix(cfg.CommentPrefix),
		app.WithPlacedOnly(cfg.PlacedOnly),
	)

	if *serve {
		runServer(ctx, cfg, svc, log)
		return
	}

	if flag.NArg() < 1 {
		os.Stderr.WriteString("usage: podium [flags] <results.csv>\n")
		flag.PrintDefaults()
		os.Exit(2)
	}
	path := flag.Arg(0)
	console := render.NewConsole(render.WithTopN(cfg.TopN))

	if *duplicates {
		dups, err := svc.DuplicatesFile(ctx, path)
		if err != nil {
			os.Stderr.WriteString("duplicate scan failed: " + err.Error() + "\n")
			os.Exit(1)
		}
		_ = console.Duplicates(os.Stdout, dups)
		return
	}

	run, err := svc.RunFile(ctx, path)
	if err != nil {
		os.Stderr.WriteString("pipeline failed: " + err.Error() + "\n")
		os.Exit(1)
	}
	_ = console.Leaderboards(os.Stdout, run.Boards)
}

// runServer exposes the upload UI and read API until the context ends.
func runServer(ctx context.Context, cfg *config.Config, svc *app.Service, log logger.Logger) {
	mux := http.NewServeMux()
	apiServer := api.NewServer(svc, cfg.MaxUploadBytes)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}
