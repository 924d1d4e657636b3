// Package run provides the run command, which drives a workload against a set.
package run

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Import the pprof package to enable profiling via HTTP.
	_ "net/http/pprof"
	// Import the godeltaprof package to enable continuous profiling via Pyroscope.
	_ "github.com/grafana/pyroscope-go/godeltaprof/http/pprof"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/metailurini/lazyset"
	"github.com/metailurini/lazyset/internal/telemetry"
	"github.com/metailurini/lazyset/internal/workload"
)

var (
	configPath    string
	listenAddress string
	metricShards  int
)

// Command is the command for running a workload.
var Command = &cli.Command{
	Name:  "run",
	Usage: "Run a mixed insert/delete/contains workload and verify the set afterwards.",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Workload config file path (YAML or JSON). Flags override its values.",
			Destination: &configPath,
			EnvVars:     []string{"LAZYBENCH_CONFIG"},
		},
		&cli.DurationFlag{
			Name:    "duration",
			Aliases: []string{"d"},
			Value:   workload.DefaultConfig().Duration,
			Usage:   "How long the workers run.",
			EnvVars: []string{"LAZYBENCH_DURATION"},
		},
		&cli.IntFlag{
			Name:    "threads",
			Aliases: []string{"t"},
			Value:   workload.DefaultConfig().Threads,
			Usage:   "Number of worker goroutines.",
			EnvVars: []string{"LAZYBENCH_THREADS"},
		},
		&cli.Int64Flag{
			Name:    "initial-size",
			Value:   workload.DefaultConfig().InitialSize,
			Usage:   "Number of keys inserted before the workers start.",
			EnvVars: []string{"LAZYBENCH_INITIAL_SIZE"},
		},
		&cli.Int64Flag{
			Name:    "key-range",
			Value:   workload.DefaultConfig().KeyRange,
			Usage:   "Keys are drawn uniformly from [1, key-range].",
			EnvVars: []string{"LAZYBENCH_KEY_RANGE"},
		},
		&cli.IntFlag{
			Name:    "insert",
			Value:   workload.DefaultConfig().InsertPercent,
			Usage:   "Percentage of insert operations.",
			EnvVars: []string{"LAZYBENCH_INSERT_PERCENT"},
		},
		&cli.IntFlag{
			Name:    "delete",
			Value:   workload.DefaultConfig().DeletePercent,
			Usage:   "Percentage of delete operations.",
			EnvVars: []string{"LAZYBENCH_DELETE_PERCENT"},
		},
		&cli.Uint64Flag{
			Name:    "seed",
			Usage:   "Seed for the worker RNGs. 0 picks a random seed.",
			EnvVars: []string{"LAZYBENCH_SEED"},
		},
		&cli.BoolFlag{
			Name:    "random-fill",
			Usage:   "Prefill with random keys instead of 1..initial-size.",
			EnvVars: []string{"LAZYBENCH_RANDOM_FILL"},
		},
		&cli.BoolFlag{
			Name:    "verify",
			Value:   true,
			Usage:   "Check the final size and structural invariants.",
			EnvVars: []string{"LAZYBENCH_VERIFY"},
		},
		&cli.IntFlag{
			Name:        "metric-shards",
			Usage:       "Number of metric counter shards. 0 uses GOMAXPROCS.",
			Destination: &metricShards,
			EnvVars:     []string{"LAZYBENCH_METRIC_SHARDS"},
		},
		&cli.StringFlag{
			Name:        "metrics.listen-address",
			Usage:       "The address to serve /metrics and pprof on. Empty disables the server.",
			Destination: &listenAddress,
			EnvVars:     []string{"METRICS_LISTEN_ADDRESS"},
		},
	},
	Action: func(cCtx *cli.Context) error {
		ctx, cancel := context.WithCancel(cCtx.Context)
		defer cancel()

		// Trap cleanup
		cleanChan := make(chan os.Signal, 1)
		signal.Notify(cleanChan, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-cleanChan
			cancel()
		}()

		cfg, err := loadConfig(cCtx)
		if err != nil {
			return err
		}

		set := lazyset.New(lazyset.WithMetricShards(metricShards), lazyset.WithSeed(cfg.Seed))

		var opts []workload.Option
		if listenAddress != "" {
			ops := telemetry.NewOps()
			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
				telemetry.NewSetCollector(set, nil),
				ops.Collector(),
			)
			opts = append(opts, workload.WithRecorder(ops))
			go serve(listenAddress, reg)
		}

		report, err := workload.Run(ctx, set, cfg, opts...)
		log.Info().EmbedObject(report).Msg("report")
		printReport(cCtx, report)
		return err
	},
}

// loadConfig starts from the config file, or defaults, and applies every
// flag that was set explicitly or through its environment variable.
func loadConfig(cCtx *cli.Context) (workload.Config, error) {
	cfg := workload.DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = workload.LoadFile(configPath); err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
	}

	if cCtx.IsSet("duration") {
		cfg.Duration = cCtx.Duration("duration")
	}
	if cCtx.IsSet("threads") {
		cfg.Threads = cCtx.Int("threads")
	}
	if cCtx.IsSet("initial-size") {
		cfg.InitialSize = cCtx.Int64("initial-size")
	}
	if cCtx.IsSet("key-range") {
		cfg.KeyRange = cCtx.Int64("key-range")
	}
	if cCtx.IsSet("insert") {
		cfg.InsertPercent = cCtx.Int("insert")
	}
	if cCtx.IsSet("delete") {
		cfg.DeletePercent = cCtx.Int("delete")
	}
	if cCtx.IsSet("seed") {
		cfg.Seed = cCtx.Uint64("seed")
	}
	if cCtx.IsSet("random-fill") {
		cfg.RandomFill = cCtx.Bool("random-fill")
	}
	if cCtx.IsSet("verify") {
		cfg.Verify = cCtx.Bool("verify")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func serve(addr string, reg *prometheus.Registry) {
	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	server := &http.Server{
		Addr:              addr,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Info().Str("listenAddress", addr).Msg("listening")
	if err := server.ListenAndServe(); err != nil {
		log.Error().Err(err).Msg("fail to serve http")
	}
}

func printReport(cCtx *cli.Context, r workload.Report) {
	w := cCtx.App.Writer
	fmt.Fprintf(w, "run %s: %d threads, %s, seed %d\n", r.RunID, r.Config.Threads, r.Elapsed.Round(time.Millisecond), r.Seed)
	fmt.Fprintf(w, "%-10s %12s %12s\n", "op", "attempts", "successes")
	for _, op := range []workload.Op{workload.OpInsert, workload.OpDelete, workload.OpContains} {
		fmt.Fprintf(w, "%-10s %12d %12d\n", op, r.Totals.Attempts[op], r.Totals.Successes[op])
	}
	fmt.Fprintf(w, "throughput: %.0f ops/s\n", r.Throughput())
	fmt.Fprintf(w, "size: initial %d, expected %d, final %d\n", r.InitialSize, r.ExpectedSize(), r.FinalSize)
}
