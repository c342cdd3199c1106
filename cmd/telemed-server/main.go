package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/healthconnect/telemed/internal/config"
	"github.com/healthconnect/telemed/internal/domain/location"
	"github.com/healthconnect/telemed/internal/domain/provider"
	"github.com/healthconnect/telemed/internal/domain/triage"
	"github.com/healthconnect/telemed/internal/platform/random"
	"github.com/healthconnect/telemed/internal/server"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "telemed-server",
		Short:        "Telemedicine API server",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(regionsCmd())
	rootCmd.AddCommand(providersCmd())
	rootCmd.AddCommand(triageCmd())
	return rootCmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the telemedicine API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func regionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "regions [region]",
		Short: "List regions, or the sub-regions of one region",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := location.Default()
			names := dir.AllRegions()
			if len(args) == 1 {
				subs, err := dir.SubRegionsOf(args[0])
				if err != nil {
					return err
				}
				names = subs
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
}

func providersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "providers",
		Short: "Print generated providers for a location as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			region, _ := cmd.Flags().GetString("region")
			subRegion, _ := cmd.Flags().GetString("sub-region")
			count, _ := cmd.Flags().GetInt("count")
			seed, _ := cmd.Flags().GetUint64("seed")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("count") {
				count = cfg.ProviderCount
			}
			if !cmd.Flags().Changed("seed") {
				seed = cfg.RandomSeed
			}

			gen := provider.NewGenerator(location.Default(), random.New(seed), provider.Options{
				PrimaryLanguage:   cfg.PrimaryLanguage,
				SecondaryLanguage: cfg.SecondaryLanguage,
				Fee:               cfg.ConsultationFee,
			})
			records, err := gen.Generate(count, region, subRegion)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), records)
		},
	}
	cmd.Flags().String("region", "", "Region (state or union territory)")
	cmd.Flags().String("sub-region", "", "Sub-region (district)")
	cmd.Flags().Int("count", 10, "Number of providers to generate")
	cmd.Flags().Uint64("seed", 0, "Random seed, 0 seeds from the clock")
	_ = cmd.MarkFlagRequired("region")
	return cmd
}

func triageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "triage",
		Short: "Classify a symptom report and print the result as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := triage.Input{}
			in.Category, _ = cmd.Flags().GetString("category")
			in.Symptoms, _ = cmd.Flags().GetStringArray("symptom")
			in.Severity, _ = cmd.Flags().GetString("severity")
			in.Duration, _ = cmd.Flags().GetString("duration")

			res, err := triage.Default().Classify(in)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().String("category", "", "Symptom category (fever, digestive, respiratory, ...)")
	cmd.Flags().StringArray("symptom", nil, "Selected symptom, repeatable")
	cmd.Flags().String("severity", "", "mild, moderate or severe")
	cmd.Flags().String("duration", "", "Duration of symptoms, e.g. \"1-3 days\"")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newLogger(cfg *config.Config) zerolog.Logger {
	if cfg.IsDev() {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func runServer() error {
	// Config
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Logger
	logger := newLogger(cfg)
	if cfg.IsDev() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	e, err := server.New(cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("invalid configuration")
		return err
	}

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		logger.Info().
			Str("addr", addr).
			Str("env", cfg.Env).
			Bool("tls", cfg.TLSEnabled).
			Str("languages", strings.Join([]string{cfg.PrimaryLanguage, cfg.SecondaryLanguage}, ",")).
			Msg("starting server")
		var err error
		if cfg.TLSEnabled {
			err = e.StartTLS(addr, cfg.TLSCertFile, cfg.TLSKeyFile)
		} else {
			err = e.Start(addr)
		}
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		logger.Error().Err(err).Msg("server error")
		return err
	case <-quit:
	}

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
