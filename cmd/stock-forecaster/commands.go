package main

import (
	"encoding/json"
	"fmt"
	"os"

	"stock-forecaster/src/export"
	"stock-forecaster/src/models"
	"stock-forecaster/src/presenter"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "stock-forecaster",
		Short:         "Forecast daily stock closing prices",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&configPath, "config", os.Getenv("CONFIG_PATH"), "path to YAML config file (env CONFIG_PATH)")

	root.AddCommand(
		newServeCmd(&configPath),
		newPredictCmd(&configPath),
		newExportCmd(&configPath),
	)
	return root
}

// -----------------------------------------------------------------------------

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP, websocket and gRPC servers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()
			return runServers(a)
		},
	}
}

// -----------------------------------------------------------------------------

type forecastFlags struct {
	strategy string
	days     int
}

func (f *forecastFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.strategy, "strategy", "", "forecast strategy (arima, holt_winters, prophet, linear)")
	cmd.Flags().IntVar(&f.days, "days", 0, "forecast horizon in days (1-365)")
}

func (f *forecastFlags) request(format string) models.MForecastRequest {
	return models.MForecastRequest{
		Strategy:    f.strategy,
		HorizonDays: f.days,
		Options:     models.MPresentOptions{Format: format},
	}
}

// -----------------------------------------------------------------------------

func newPredictCmd(configPath *string) *cobra.Command {
	var flags forecastFlags
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "predict TICKER",
		Short: "Forecast one ticker and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			outcome, err := a.Pipeline.Run(cmd.Context(), args[0], flags.request(models.FormatSummary))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(presenter.RoundedSummary(outcome.Presentation.Summary))
			}

			s := presenter.RoundedSummary(outcome.Presentation.Summary)
			fmt.Fprintf(out, "%s (%s, %d days)\n", outcome.Ticker, outcome.Strategy, len(outcome.Result.Forecast))
			fmt.Fprintf(out, "  latest:   %.2f (%+.2f)\n", s.LatestPrice, s.PriceChange)
			fmt.Fprintf(out, "  forecast: %.2f (%+.2f%%)\n", s.ForecastPrice, s.TrendPercentage)
			for _, p := range outcome.Result.Forecast {
				fmt.Fprintf(out, "  %s  %.2f\n", models.DateString(p.Date), presenter.Round2(p.PredictedClose))
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	return cmd
}

// -----------------------------------------------------------------------------

func newExportCmd(configPath *string) *cobra.Command {
	var flags forecastFlags

	cmd := &cobra.Command{
		Use:   "export TICKER FILE.parquet",
		Short: "Forecast one ticker and write history and forecast to a parquet file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			outcome, err := a.Pipeline.Run(cmd.Context(), args[0], flags.request(models.FormatSummary))
			if err != nil {
				return err
			}

			n, err := export.WriteParquet(args[1], outcome)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rows for %s to %s\n", n, outcome.Ticker, args[1])
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
