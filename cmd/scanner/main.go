// Command scanner discovers and ranks option strategies from a chain
// snapshot. It can run a single scan from the CLI or serve results
// over HTTP.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/eddiefleurent/stamford_scanner/internal/config"
	"github.com/eddiefleurent/stamford_scanner/internal/dashboard"
	"github.com/eddiefleurent/stamford_scanner/internal/feed"
	"github.com/eddiefleurent/stamford_scanner/internal/mock"
	"github.com/eddiefleurent/stamford_scanner/internal/models"
	"github.com/eddiefleurent/stamford_scanner/internal/rank"
	"github.com/eddiefleurent/stamford_scanner/internal/scanner"
	"github.com/eddiefleurent/stamford_scanner/internal/storage"
	"github.com/eddiefleurent/stamford_scanner/internal/strategy"
	"github.com/eddiefleurent/stamford_scanner/internal/util"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "scanner",
		Short: "Discover and rank option strategies from a chain snapshot",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Optional .env file for token and endpoint overrides.
			_ = godotenv.Load()
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "Path to configuration file")

	rootCmd.AddCommand(newScanCmd())
	rootCmd.AddCommand(newServeCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newScanCmd() *cobra.Command {
	var noStore bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run one scan and print the ranked strategies",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			logger := newLogger(cfg.Environment.LogLevel)

			provider, err := newProvider(cfg, logger)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()

			snap, err := provider.Fetch(ctx)
			if err != nil {
				return fmt.Errorf("fetching chain: %w", err)
			}

			sc := scanner.New(scannerParams(cfg), logger)
			res, err := sc.Scan(ctx, snap.Symbol, snap.Legs, snap.SpotPrice)
			if err != nil {
				return fmt.Errorf("scanning: %w", err)
			}

			if !noStore {
				store, err := storage.NewStorage(cfg.Storage.Path, cfg.Storage.HistoryLimit)
				if err != nil {
					return fmt.Errorf("opening storage: %w", err)
				}
				if err := store.AddScan(res); err != nil {
					logger.WithError(err).Warn("Failed to persist scan")
				}
			}

			renderResult(res)
			return nil
		},
	}
	cmd.Flags().BoolVar(&noStore, "no-store", false, "Skip persisting the scan result")
	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve scan results over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			logger := newLogger(cfg.Environment.LogLevel)

			provider, err := newProvider(cfg, logger)
			if err != nil {
				return err
			}

			store, err := storage.NewStorage(cfg.Storage.Path, cfg.Storage.HistoryLimit)
			if err != nil {
				return fmt.Errorf("opening storage: %w", err)
			}

			sc := scanner.New(scannerParams(cfg), logger)
			srv := dashboard.NewServer(dashboard.Config{
				Port:      cfg.Server.Port,
				AuthToken: cfg.Server.AuthToken,
			}, store, sc, provider, logger)

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Start()
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logger.Infof("Received %s, shutting down", sig)
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

func newLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)
	return logger
}

func newProvider(cfg *config.Config, logger *logrus.Logger) (feed.Provider, error) {
	switch cfg.Feed.Source {
	case "csv":
		return feed.NewCSVProvider(cfg.Feed.Path, cfg.Feed.Symbol, cfg.Feed.SpotPrice)
	case "http":
		httpLog := log.New(logger.Writer(), "", 0)
		p, err := feed.NewHTTPProvider(cfg.Feed.URL, nil, httpLog)
		if err != nil {
			return nil, err
		}
		return feed.NewCircuitBreakerProvider(p), nil
	case "mock":
		return mock.NewChainProvider(cfg.Feed.Symbol, cfg.Feed.SpotPrice), nil
	default:
		return nil, fmt.Errorf("unknown feed source %q", cfg.Feed.Source)
	}
}

func scannerParams(cfg *config.Config) scanner.Params {
	return scanner.Params{
		Strategy: strategy.Params{
			RiskFreeRate:   cfg.Scan.RiskFreeRate,
			FallbackVol:    cfg.Scan.FallbackVol,
			CreditWidthCap: cfg.Scan.CreditWidthCap,
		},
		Rank: rank.Params{
			LotSize:       cfg.Scan.LotSize,
			FeePerLeg:     cfg.Scan.FeePerLeg,
			MaxRiskReward: cfg.Scan.MaxRiskReward,
			SortByReturn:  cfg.Scan.SortByReturn,
		},
	}
}

func renderResult(res *scanner.Result) {
	fmt.Printf("Scan %s: %s @ %.2f, %d legs, %d strategies\n",
		res.ID, res.Symbol, res.SpotPrice, res.LegCount, len(res.Strategies))

	if len(res.Strategies) == 0 {
		fmt.Println("No viable strategies found.")
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Strategy", "Strikes", "Flow", "Premium", "Max Profit", "Max Loss", "Breakevens", "Risk/Reward"})
	table.SetAutoWrapText(false)

	for _, m := range res.Strategies {
		table.Append([]string{
			m.Name,
			m.Strikes,
			string(m.CashFlow),
			fmt.Sprintf("%.2f", m.NetPremium),
			m.MaxProfit.String(),
			m.MaxLoss.String(),
			formatBreakevens(m.Breakevens),
			formatRiskReward(m),
		})
	}
	table.Render()

	sum := res.Summary
	fmt.Printf("credit %d / debit %d, best RR %.2f, median RR %.2f, total max profit %.2f\n",
		sum.CreditCount, sum.DebitCount, sum.BestRiskReward, sum.MedianRiskReward, sum.TotalMaxProfit)
}

func formatBreakevens(bes []float64) string {
	parts := make([]string, len(bes))
	for i, be := range bes {
		parts[i] = fmt.Sprintf("%.2f", util.RoundToTick(be, 0.01))
	}
	return strings.Join(parts, " / ")
}

// formatRiskReward renders the ratio column. A record with an unbounded
// max loss has no finite ratio; an unbounded max profit legitimately
// scores zero, the best possible ratio.
func formatRiskReward(m *models.StrategyMetrics) string {
	if m.MaxLoss.Unbounded {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", m.RiskReward)
}
