package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aluiziolira/go-appstore-collector/collector"
	"github.com/aluiziolira/go-appstore-collector/config"
	"github.com/aluiziolira/go-appstore-collector/itunes"
	"github.com/aluiziolira/go-appstore-collector/models"
	"github.com/aluiziolira/go-appstore-collector/output"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	defaultCfg := config.DefaultConfig()

	countryDefault := defaultCfg.Country
	if value, ok := config.EnvString("COLLECTOR_COUNTRY"); ok {
		countryDefault = value
	}
	delayDefault := defaultCfg.Delay
	if value, ok, err := config.EnvDuration("COLLECTOR_DELAY"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid COLLECTOR_DELAY: %v\n", err)
		os.Exit(1)
	} else if ok {
		delayDefault = value
	}
	outputDirDefault := defaultCfg.OutputDir
	if value, ok := config.EnvString("COLLECTOR_OUTPUT_DIR"); ok {
		outputDirDefault = value
	}
	metricsDefault := defaultCfg.MetricsAddr
	if value, ok := config.EnvString("COLLECTOR_METRICS_ADDR"); ok {
		metricsDefault = value
	}
	limitDefault := defaultCfg.Limit
	if value, ok, err := config.EnvInt("COLLECTOR_LIMIT"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid COLLECTOR_LIMIT: %v\n", err)
		os.Exit(1)
	} else if ok {
		limitDefault = value
	}

	country := flag.String("country", countryDefault, "Store front country code")
	delay := flag.Duration("delay", delayDefault, "Fixed delay applied after every request")
	timeout := flag.Duration("timeout", defaultCfg.Timeout, "Per-request network timeout")
	limit := flag.Int("limit", limitDefault, "Results per query (capped at 200)")
	terms := flag.String("terms", "", "Comma-separated search terms (default: priority term list)")
	categories := flag.String("categories", "", "Comma-separated category names, or 'all'")
	useAlphabet := flag.Bool("alphabet", false, "Add single-letter and letter-pair queries")
	outputDir := flag.String("output-dir", outputDirDefault, "Directory for output files")
	prefix := flag.String("prefix", defaultCfg.OutputPrefix, "Output file name prefix")
	format := flag.String("format", defaultCfg.OutputFormat, "Output format: csv, json, or dual")
	metricsAddr := flag.String("metrics-addr", metricsDefault, "Prometheus metrics listen address (e.g. :9090)")
	charts := flag.Bool("charts", false, "Also fetch the top free chart feed")
	rankTop := flag.Int("rank-top", 0, "Write the N most frequently seen apps to a ranking file")
	recentDays := flag.Int("recent-days", 0, "Write apps updated within the last N days to a separate file")
	verbose := flag.Bool("v", false, "Enable verbose logging")

	flag.Parse()

	logger, level := newLogger(*verbose)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level.Level())

	cfg := config.DefaultConfig()
	cfg.Country = *country
	cfg.Delay = *delay
	cfg.Timeout = *timeout
	cfg.Limit = *limit
	cfg.OutputDir = *outputDir
	cfg.OutputPrefix = *prefix
	cfg.OutputFormat = strings.ToLower(*format)
	cfg.MetricsAddr = *metricsAddr
	cfg.Verbose = *verbose
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	client, err := itunes.NewClient(cfg)
	if err != nil {
		slog.Error("initialising client", slog.Any("error", err))
		os.Exit(1)
	}

	c := collector.New(cfg, client)

	var ranker *collector.FrequencyRanker
	if *rankTop > 0 {
		ranker = collector.NewFrequencyRanker(50)
		c.OnResults = func(_ itunes.Query, apps []models.App) {
			ranker.Observe(apps)
		}
	}

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		metricsServer = &http.Server{
			Addr:    cfg.MetricsAddr,
			Handler: promhttp.HandlerFor(c.Metrics.Registry, promhttp.HandlerOpts{}),
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", slog.Any("error", err))
			}
		}()
		slog.Info("metrics server enabled", slog.String("addr", cfg.MetricsAddr))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	queries := buildQueries(cfg, *terms, *categories, *useAlphabet)
	slog.Info("starting collection",
		slog.String("country", cfg.Country),
		slog.Int("queries", len(queries)),
		slog.Duration("delay", cfg.Delay),
	)

	coll, stats := c.Collect(ctx, queries)

	path, err := output.Persist(coll, cfg.OutputDir, cfg.OutputPrefix, cfg.OutputFormat)
	if err != nil {
		// The collection stays in memory; report and fail the run.
		slog.Error("persisting collection failed",
			slog.Any("error", err),
			slog.Int("unique_apps", coll.Len()),
		)
		os.Exit(1)
	}

	if *charts {
		if err := saveCharts(ctx, client, cfg); err != nil {
			slog.Error("fetching charts failed", slog.Any("error", err))
		}
	}

	if ranker != nil {
		if err := saveRanking(ranker, cfg, *rankTop); err != nil {
			slog.Error("writing ranking failed", slog.Any("error", err))
		}
	}

	if *recentDays > 0 {
		if err := saveRecent(coll, cfg, *recentDays); err != nil {
			slog.Error("writing recent apps failed", slog.Any("error", err))
		}
	}

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("metrics server shutdown failed", slog.Any("error", err))
		}
		cancel()
	}

	printSummary(stats, path)
}

func buildQueries(cfg *config.Config, terms, categories string, useAlphabet bool) []itunes.Query {
	var queries []itunes.Query

	termList := collector.PriorityTerms
	if terms != "" {
		termList = splitList(terms)
	}
	queries = append(queries, collector.TermQueries(termList, cfg.Limit)...)

	if categories != "" {
		names := splitList(categories)
		if len(names) == 1 && names[0] == "all" {
			names = collector.AllCategories()
		}
		queries = append(queries, collector.CategoryQueries(names, cfg.Limit)...)
	}

	if useAlphabet {
		queries = append(queries, collector.AlphabetQueries(cfg.Limit)...)
	}

	return queries
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func saveCharts(ctx context.Context, client *itunes.Client, cfg *config.Config) error {
	entries, err := client.TopCharts(ctx, itunes.FeedTopFree, 50, 0)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}

	path := output.TimestampedPath(cfg.OutputDir, cfg.OutputPrefix+"_charts", "json", time.Now())
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	slog.Info("chart feed saved", slog.String("path", path), slog.Int("entries", len(entries)))
	return nil
}

func saveRanking(ranker *collector.FrequencyRanker, cfg *config.Config, n int) error {
	ranked := ranker.Top(n)

	data, err := json.MarshalIndent(ranked, "", "  ")
	if err != nil {
		return err
	}

	path := output.TimestampedPath(cfg.OutputDir, cfg.OutputPrefix+"_top", "json", time.Now())
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	slog.Info("ranking saved", slog.String("path", path), slog.Int("apps", len(ranked)))
	return nil
}

func saveRecent(coll *models.Collection, cfg *config.Config, days int) error {
	since := time.Now().UTC().AddDate(0, 0, -days)
	recent := coll.RecentlyUpdated(since)
	if recent == nil {
		recent = []models.App{}
	}

	data, err := json.MarshalIndent(recent, "", "  ")
	if err != nil {
		return err
	}

	path := output.TimestampedPath(cfg.OutputDir, cfg.OutputPrefix+"_recent", "json", time.Now())
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	slog.Info("recent apps saved",
		slog.String("path", path),
		slog.Int("apps", len(recent)),
		slog.Int("days", days),
	)
	return nil
}

func printSummary(stats *models.RunStats, outputPath string) {
	separator := "--------------------------------------------------"
	fmt.Println("\n" + separator)
	fmt.Println("Collection complete")
	fmt.Printf("  Run ID:         %s\n", stats.RunID)
	fmt.Printf("  Requests:       %d\n", stats.TotalRequests)
	fmt.Printf("  Success rate:   %.1f%%\n", stats.SuccessRate())
	fmt.Printf("  Failed:         %d\n", stats.FailedRequests)
	fmt.Printf("  Raw records:    %d\n", stats.TotalApps)
	fmt.Printf("  Unique apps:    %d\n", stats.UniqueApps)
	fmt.Printf("  Duplicates:     %d\n", stats.TotalApps-stats.UniqueApps)
	fmt.Printf("  Duration:       %v\n", stats.Duration())
	fmt.Printf("  Output file:    %s\n", outputPath)
	fmt.Println(separator)
}

func newLogger(verbose bool) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(os.Stdout) {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler), level
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
