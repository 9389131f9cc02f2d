package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/alexandervoronov/tiny-transaction-processor/internal/config"
	"github.com/alexandervoronov/tiny-transaction-processor/internal/ingestion"
	"github.com/alexandervoronov/tiny-transaction-processor/internal/ledger"
	"github.com/alexandervoronov/tiny-transaction-processor/internal/observability"
	"github.com/alexandervoronov/tiny-transaction-processor/internal/report"
)

// version is overridden at build time via -ldflags.
var version = "dev"

var (
	flagConfig      string
	flagLogLevel    string
	flagMetricsAddr string
	flagSorted      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "txproc",
		Short:         "Batch transaction processor for client account ledgers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error")

	processCmd := &cobra.Command{
		Use:   "process <transactions.csv>",
		Short: "Apply a transaction file and print the account report to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  runProcess,
	}
	processCmd.Flags().StringVar(&flagMetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while processing")
	processCmd.Flags().BoolVar(&flagSorted, "sorted", true, "sort report rows by client id")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the txproc version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "txproc", version)
		},
	}

	rootCmd.AddCommand(processCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		log := observability.NewLogger("main")
		log.Error().Err(err).Msg("txproc failed")
		os.Exit(1)
	}
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	if cmd.Flags().Changed("metrics-addr") {
		cfg.MetricsAddr = flagMetricsAddr
	}
	if cmd.Flags().Changed("sorted") {
		cfg.SortOutput = flagSorted
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := observability.NewLoggerWithLevel("txproc", level).With().
		Str("run_id", uuid.NewString()).
		Logger()

	var metrics *observability.Metrics
	if cfg.MetricsAddr != "" {
		metrics = observability.NewMetrics()
		health := observability.NewHealthChecker()
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.HandleFunc("/healthz", health.LivenessHandler)
		go func() {
			log.Info().Str("addr", cfg.MetricsAddr).Msg("metrics server listening")
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				log.Warn().Err(err).Msg("metrics server stopped")
			}
		}()
	}

	path := args[0]
	start := time.Now()

	reader, f, err := ingestion.OpenFile(path, log, metrics)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	defer f.Close()

	proc := ledger.NewProcessor(metrics)
	applied, rejected := 0, 0
	for {
		rec, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		if err := proc.Apply(rec); err != nil {
			rejected++
			log.Warn().
				Str("record", rec.String()).
				Str("reason", ledger.Reason(err)).
				Err(err).
				Msg("record rejected")
			continue
		}
		applied++
	}

	accounts := proc.Accounts()
	if err := report.WriteAccounts(os.Stdout, accounts, cfg.SortOutput); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	elapsed := time.Since(start)
	if metrics != nil {
		metrics.BatchDuration.Observe(elapsed.Seconds())
		metrics.ClientsReported.Set(float64(len(accounts)))
	}
	log.Info().
		Str("file", path).
		Int("rows", reader.Rows()).
		Int("skipped", reader.Skipped()).
		Int("applied", applied).
		Int("rejected", rejected).
		Int("clients", len(accounts)).
		Dur("elapsed", elapsed).
		Msg("batch complete")
	return nil
}
