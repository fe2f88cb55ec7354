package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/openalpha/hedge-vault/app"
	"github.com/openalpha/hedge-vault/metrics"
)

const (
	FlagExport      = "export"
	FlagInMemory    = "in-memory"
	FlagMetricsAddr = "metrics-addr"
)

// SimulateCmd returns the command that runs a scenario file against the ledger
func SimulateCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate [scenario.json]",
		Short: "Run a scenario of timed ledger operations",
		Long: `Run a JSON scenario against the ledger under --home, checking invariants after
every step, and print the report. With --metrics-addr the collected metrics are
served until interrupted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scenario, err := app.LoadScenario(args[0])
			if err != nil {
				return err
			}

			cfg, logger, err := loadConfig(v)
			if err != nil {
				return err
			}
			if inMemory, _ := cmd.Flags().GetBool(FlagInMemory); inMemory {
				cfg.DBBackend = "memdb"
			}

			reg := prometheus.NewRegistry()
			var collector *metrics.Collector
			if cfg.Metrics.Enabled {
				collector = metrics.NewCollector(cfg.Metrics.Namespace, reg)
			}

			vaultApp, err := app.NewVaultApp(cfg, logger, collector)
			if err != nil {
				return err
			}
			defer vaultApp.Close()

			report, runErr := app.NewRunner(vaultApp).Run(scenario)
			output, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode report: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(output))
			if runErr != nil {
				return fmt.Errorf("scenario %q failed: %w", scenario.Name, runErr)
			}

			if path, _ := cmd.Flags().GetString(FlagExport); path != "" {
				end := scenario.Start
				if n := len(report.Steps); n > 0 {
					end = report.Steps[n-1].Time
				}
				if err := os.WriteFile(path, vaultApp.ExportGenesis(end), 0o644); err != nil {
					return fmt.Errorf("failed to write export: %w", err)
				}
				logger.Info("Exported ledger state", "path", path)
			}

			if addr, _ := cmd.Flags().GetString(FlagMetricsAddr); addr != "" && collector != nil {
				return serveMetrics(cmd.Context(), addr, reg)
			}
			return nil
		},
	}

	cmd.Flags().String(FlagExport, "", "write the final ledger state as genesis JSON to this file")
	cmd.Flags().Bool(FlagInMemory, false, "run on an in-memory database instead of --home")
	cmd.Flags().String(FlagMetricsAddr, "", "serve Prometheus metrics on this address after the run")
	return cmd
}

func serveMetrics(ctx context.Context, addr string, gatherer prometheus.Gatherer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(gatherer))
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- server.ListenAndServe() }()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}
