package commands

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/runtime/app"
	"github.com/de-tools/sales-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/sales-atlas/pkg/runtime/terminal/markdown"
)

const (
	FormatMarkdown = "markdown"
	FormatTable    = "table"
)

// Deps is filled by the root command before any subcommand runs.
type Deps struct {
	App    *app.App
	Output io.Writer
}

func (d *Deps) date(raw string) (time.Time, error) {
	if raw == "" {
		return d.App.Today(), nil
	}
	return d.App.ParseDate(raw)
}

func (d *Deps) printLocation(format string, r *domain.LocationReport) error {
	switch format {
	case FormatTable:
		return export.NewReporter(d.Output).HandleLocation(r)
	case FormatMarkdown:
		return markdown.NewReporter(d.Output, d.App.Config.Report.Currency).HandleLocation(r)
	}
	return fmt.Errorf("unsupported format %q", format)
}

func (d *Deps) printRollup(format string, r *domain.RollupResult) error {
	switch format {
	case FormatTable:
		return export.NewReporter(d.Output).HandleRollup(r)
	case FormatMarkdown:
		return markdown.NewReporter(d.Output, d.App.Config.Report.Currency).HandleRollup(r)
	}
	return fmt.Errorf("unsupported format %q", format)
}

func (d *Deps) render(r *domain.RollupResult) (string, error) {
	return markdown.RenderRollup(r, d.App.Config.Report.Currency)
}

var errNoApp = errors.New("application is not initialized")
