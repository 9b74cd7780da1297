package commands

import (
	"fmt"

	"github.com/de-tools/sales-atlas/pkg/services/schedule"
	"github.com/spf13/cobra"
)

type AutoReportCmd struct {
	date     string
	networks []string
	dryRun   bool
	deps     *Deps
}

func NewAutoReportCmd(deps *Deps) *cobra.Command {
	ac := &AutoReportCmd{deps: deps}
	cmd := &cobra.Command{
		Use:   "autoreport",
		Short: "Build the network rollup and send it to all recipients",
		Long: "Build the network rollup of the previous day (or --date) and broadcast it " +
			"to every recipient, as the daily scheduler does.",
		RunE: ac.run,
	}

	cmd.Flags().StringVar(&ac.date, "date", "", "Day to report, YYYY-MM-DD (default yesterday)")
	cmd.Flags().StringSliceVar(&ac.networks, "network", nil, "Network to include (repeatable, default all)")
	cmd.Flags().BoolVar(&ac.dryRun, "dry-run", false, "Print the report instead of sending it")

	return cmd
}

func (ac *AutoReportCmd) run(cmd *cobra.Command, _ []string) error {
	if ac.deps.App == nil {
		return errNoApp
	}
	ctx := cmd.Context()

	runner, err := ac.deps.App.Runner(ac.deps.render,
		schedule.WithNetworks(ac.networks...),
		schedule.WithDryRun(ac.dryRun),
	)
	if err != nil {
		return err
	}

	var out schedule.Outcome
	if ac.date == "" {
		out, err = runner.RunOnce(ctx, ac.deps.App.Today())
	} else {
		date, perr := ac.deps.App.ParseDate(ac.date)
		if perr != nil {
			return perr
		}
		out, err = runner.RunFor(ctx, date)
	}
	if err != nil {
		return err
	}

	if ac.dryRun {
		_, err = fmt.Fprint(ac.deps.Output, out.Text)
		return err
	}

	_, err = fmt.Fprintf(ac.deps.Output, "report for %s sent: %d delivered, %d failed\n",
		out.Date.Format("2006-01-02"), len(out.Delivery.Delivered), len(out.Delivery.Failed))
	for id, ferr := range out.Delivery.Failed {
		fmt.Fprintf(ac.deps.Output, "  %s: %v\n", id, ferr)
	}
	return err
}
