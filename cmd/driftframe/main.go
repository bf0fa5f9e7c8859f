package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spacephys/driftframe/internal/api"
	"github.com/spacephys/driftframe/internal/config"
	"github.com/spacephys/driftframe/internal/db"
	"github.com/spacephys/driftframe/internal/monitoring"
	"github.com/spacephys/driftframe/internal/version"
)

var (
	configPath  = flag.String("config", "", "Path to a JSON run config")
	input       = flag.String("input", "", "Input pass file (.nc or .csv)")
	format      = flag.String("format", "", "Input format: netcdf or csv (default: from extension)")
	start       = flag.String("start", "", "Window start, RFC 3339")
	end         = flag.String("end", "", "Window end, RFC 3339")
	plotDir     = flag.String("plot-dir", "", "Directory for PNG plots (default plots)")
	htmlPath    = flag.String("html", "", "Write an HTML report to this path")
	dbPath      = flag.String("db", "", "SQLite run store path")
	unitsFlag   = flag.String("units", "", "Report units: mps, kmps or kph (default mps)")
	workers     = flag.Int("workers", -1, "Rotation workers (0 = GOMAXPROCS)")
	chunk       = flag.Int("chunk", 0, "Samples per rotation chunk (default 4096)")
	printTable  = flag.Bool("print", false, "Print the rotated samples as a table")
	compare     = flag.String("compare-drift", "", "Ground-radar drift E,N,U in m/s to compare with the cross-track measurement")
	serveAddr   = flag.String("serve", "", "Serve stored runs from -db on this address instead of rotating")
	quiet       = flag.Bool("quiet", false, "Suppress per-stage diagnostics")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func overrides() config.Overrides {
	return config.Overrides{
		Input:      *input,
		Format:     *format,
		Start:      *start,
		End:        *end,
		PlotDir:    *plotDir,
		HTMLReport: *htmlPath,
		DBPath:     *dbPath,
		Units:      *unitsFlag,
		ChunkSize:  *chunk,
		Workers:    *workers,
	}
}

func loadConfig() (*config.RunConfig, error) {
	cfg := config.EmptyRunConfig()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadRunConfig(*configPath); err != nil {
			return nil, err
		}
		log.Printf("loaded run config from %s", *configPath)
	}
	if err := cfg.Apply(overrides()); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}
	monitoring.Quiet = *quiet

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	if flag.Arg(0) == "migrate" {
		if err := db.RunMigrateCommand(flag.Args()[1:], cfg.GetDBPath(), os.Stdout); err != nil {
			log.Fatalf("migrate failed: %v", err)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *serveAddr != "" {
		if err := serve(ctx, cfg, *serveAddr); err != nil {
			log.Fatalf("server failed: %v", err)
		}
		return
	}

	if cfg.GetInput() == "" {
		log.Fatal("an input file is required (-input or \"input\" in -config)")
	}

	opts := runOptions{Print: *printTable, Out: os.Stdout}
	if *compare != "" {
		if opts.CompareDrift, err = parseDrift(*compare); err != nil {
			log.Fatalf("invalid -compare-drift: %v", err)
		}
	}
	if _, err := run(ctx, cfg, opts); err != nil {
		log.Fatalf("rotation failed: %v", err)
	}
}

// serve exposes the run store over HTTP until ctx is cancelled.
func serve(ctx context.Context, cfg *config.RunConfig, addr string) error {
	if cfg.GetDBPath() == "" {
		return errors.New("-serve requires -db")
	}
	store, err := db.Open(cfg.GetDBPath())
	if err != nil {
		return fmt.Errorf("failed to open run store: %w", err)
	}
	defer store.Close()

	mux := api.NewServer(store, cfg.GetUnits(), cfg.GetSpeedMax()).ServeMux()
	if err := store.AttachAdminRoutes(mux); err != nil {
		return err
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           api.LoggingMiddleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("failed to shut down server: %v", err)
		}
	}()

	log.Printf("serving runs from %s on %s", cfg.GetDBPath(), addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Print("server terminated")
	return nil
}
