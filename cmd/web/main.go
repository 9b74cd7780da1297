package main

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/runtime/app"
	"github.com/de-tools/sales-atlas/pkg/runtime/terminal/markdown"
	"github.com/de-tools/sales-atlas/pkg/server"
	"github.com/de-tools/sales-atlas/pkg/services/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the Sales Atlas API and the daily auto-report scheduler",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to the app config (default ./sales-atlas.yaml)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// SERVER_HOST and SERVER_PORT from .env win over the config file
	if host := os.Getenv("SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		cfg.Server.Port = port
	}

	logger := cfg.Log.Logger(os.Stdout)
	ctx, stop := signal.NotifyContext(logger.WithContext(cmd.Context()), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer a.Close()

	locations, err := a.Reports.ListLocations(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to list plan workbooks")
	}
	logger.Info().Msgf("Found %d location plan workbook(s)", len(locations))
	for _, n := range a.Engine.Networks {
		logger.Info().Msgf("Network: `%s`, locations: %v", n.Name, n.Locations)
	}

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	web := server.NewWebAPI(server.Config{
		Addr: addr,
		Dependencies: server.Dependencies{
			Reports:  a.Reports,
			Plans:    a.Plans,
			Metrics:  a.Metrics,
			Location: a.Location,
			Logger:   logger,
		},
	})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return web.Start(ctx)
	})

	if cfg.Schedule.Enabled {
		render := func(r *domain.RollupResult) (string, error) {
			return markdown.RenderRollup(r, cfg.Report.Currency)
		}
		runner, err := a.Runner(render)
		if err != nil {
			return fmt.Errorf("failed to create scheduler: %w", err)
		}
		g.Go(func() error {
			if err := runner.Run(ctx); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		})
	} else {
		logger.Info().Msg("auto-report scheduler disabled")
	}

	return g.Wait()
}
