package terminal

import (
	"context"
	"io"
	"os"

	"github.com/de-tools/sales-atlas/pkg/runtime/app"
	"github.com/de-tools/sales-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/sales-atlas/pkg/services/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Builder wires the application from the loaded config.
type Builder func(ctx context.Context, cfg *config.AppConfig) (*app.App, error)

// CLI represents the command-line interface
type CLI struct {
	deps       *commands.Deps
	build      Builder
	configPath string
	rootCmd    *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Output io.Writer
	Build  Builder
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Build == nil {
		opts.Build = app.New
	}

	cli := &CLI{
		deps:  &commands.Deps{Output: opts.Output},
		build: opts.Build,
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) ExecuteContext(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "sales-atlas",
		Short:             "Plan vs fact sales reports",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: cli.setup,
	}
	cmd.PersistentPostRunE = cli.teardown

	cmd.PersistentFlags().StringVarP(&cli.configPath, "config", "c", "",
		"Path to the app config (default ./sales-atlas.yaml)")

	cmd.AddCommand(commands.NewLocationCmd(cli.deps))
	cmd.AddCommand(commands.NewNetworkCmd(cli.deps))
	cmd.AddCommand(commands.NewLocationsCmd(cli.deps))
	cmd.AddCommand(commands.NewAutoReportCmd(cli.deps))
	cmd.AddCommand(commands.NewRecipientsCmd(cli.deps))
	cmd.AddCommand(commands.NewPlanCmd(cli.deps))

	return cmd
}

func (cli *CLI) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cli.configPath)
	if err != nil {
		return err
	}

	logger := cfg.Log.Logger(os.Stderr)
	ctx := logger.WithContext(cmd.Context())
	cmd.SetContext(ctx)

	a, err := cli.build(ctx, cfg)
	if err != nil {
		return err
	}
	cli.deps.App = a

	zerolog.Ctx(ctx).Debug().Str("command", cmd.Name()).Msg("cli ready")
	return nil
}

func (cli *CLI) teardown(*cobra.Command, []string) error {
	if cli.deps.App == nil {
		return nil
	}
	return cli.deps.App.Close()
}
