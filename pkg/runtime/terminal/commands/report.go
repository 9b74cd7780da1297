package commands

import (
	"errors"
	"fmt"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/runtime/terminal/markdown"
	"github.com/spf13/cobra"
)

type LocationCmd struct {
	name   string
	date   string
	format string
	deps   *Deps
}

func NewLocationCmd(deps *Deps) *cobra.Command {
	lc := &LocationCmd{deps: deps}
	cmd := &cobra.Command{
		Use:   "location",
		Short: "Plan/fact report of one location for a day",
		RunE:  lc.run,
	}

	cmd.Flags().StringVar(&lc.name, "name", "", "Location (iiko department) name")
	cmd.Flags().StringVar(&lc.date, "date", "", "Day to report, YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&lc.format, "format", FormatMarkdown, "Output format: markdown or table")

	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func (lc *LocationCmd) run(cmd *cobra.Command, _ []string) error {
	if lc.deps.App == nil {
		return errNoApp
	}
	date, err := lc.deps.date(lc.date)
	if err != nil {
		return err
	}

	report, err := lc.deps.App.Reports.GetLocationReport(cmd.Context(), lc.name, date)
	if errors.Is(err, domain.ErrUnconfiguredLocation) || errors.Is(err, domain.ErrFactFetchFailed) {
		_ = markdown.NewReporter(lc.deps.Output, "").HandleError(lc.name, err)
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to build report for %s: %w", lc.name, err)
	}

	return lc.deps.printLocation(lc.format, report)
}

type NetworkCmd struct {
	networks []string
	date     string
	format   string
	deps     *Deps
}

func NewNetworkCmd(deps *Deps) *cobra.Command {
	nc := &NetworkCmd{deps: deps}
	cmd := &cobra.Command{
		Use:   "network",
		Short: "Rolled-up plan/fact report of networks for a day",
		RunE:  nc.run,
	}

	cmd.Flags().StringSliceVar(&nc.networks, "network", nil, "Network to include (repeatable, default all)")
	cmd.Flags().StringVar(&nc.date, "date", "", "Day to report, YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&nc.format, "format", FormatMarkdown, "Output format: markdown or table")

	return cmd
}

func (nc *NetworkCmd) run(cmd *cobra.Command, _ []string) error {
	if nc.deps.App == nil {
		return errNoApp
	}
	date, err := nc.deps.date(nc.date)
	if err != nil {
		return err
	}

	result, err := nc.deps.App.Reports.GetNetworkRollup(cmd.Context(), date, nc.networks...)
	if err != nil {
		return fmt.Errorf("failed to build network rollup: %w", err)
	}

	return nc.deps.printRollup(nc.format, result)
}

func NewLocationsCmd(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "locations",
		Short: "List locations with a plan workbook",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if deps.App == nil {
				return errNoApp
			}
			locations, err := deps.App.Reports.ListLocations(cmd.Context())
			if err != nil {
				return err
			}
			if len(locations) == 0 {
				_, err = fmt.Fprintln(deps.Output, markdown.NoLocationsText)
				return err
			}
			for _, l := range locations {
				if _, err := fmt.Fprintln(deps.Output, l); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
