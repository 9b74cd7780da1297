package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
)

type TableConfig struct {
	NameWidth  int
	ValueWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		NameWidth:  12,
		ValueWidth: 12,
	}
}

// Reporter prints reports as plain-text tables for terminal use.
type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

type row struct {
	Name   string
	Values []float64
}

type table struct {
	Title  string
	Footer []string
	Rows   []row
}

var columns = []string{
	"Plan Sales", "Fact Sales", "Plan Orders", "Fact Orders",
	"Plan Avg", "Fact Avg", "Plan Guests", "Fact Guests",
}

const tableTmpl = `
{{.Title}}

{{separator}}
{{header}}
{{separator}}
{{range .Rows}}{{formatRow .Name .Values}}
{{end}}{{separator}}
{{range .Footer}}{{.}}
{{end}}`

func (c *Reporter) HandleLocation(report *domain.LocationReport) error {
	t := table{Title: fmt.Sprintf("%s (%s)", report.Location, domain.DateKey(report.Date))}
	for _, cat := range domain.Categories {
		m := report.Category(cat)
		var pg, fg float64
		if m.Guests != nil {
			pg, fg = m.Guests.Plan, m.Guests.Fact
		}
		t.Rows = append(t.Rows, row{
			Name:   cat.String(),
			Values: []float64{m.PlanSales, m.FactSales, m.PlanOrders, m.FactOrders, m.PlanAvgCheck, m.FactAvgCheck, pg, fg},
		})
	}
	o := report.Overall
	t.Rows = append(t.Rows, row{
		Name:   "overall",
		Values: []float64{o.PlanTotalSales, o.FactSales, o.PlanOrders, o.FactOrders, o.PlanAvgCheck, o.FactAvgCheck, o.PlanGuests, o.FactGuests},
	})
	return c.render(t)
}

func (c *Reporter) HandleRollup(result *domain.RollupResult) error {
	r := result.Report
	t := table{
		Title: fmt.Sprintf("%s (%s) [%s]", strings.Join(r.Networks, ", "), domain.DateKey(r.Date), result.Status),
	}
	for _, cat := range domain.Categories {
		m := r.Category(cat)
		var pg, fg float64
		if m.Guests != nil {
			pg, fg = m.Guests.Plan, m.Guests.Fact
		}
		t.Rows = append(t.Rows, row{
			Name:   cat.String(),
			Values: []float64{m.PlanSales, m.FactSales, m.PlanOrders, m.FactOrders, m.PlanAvgCheck, m.FactAvgCheck, pg, fg},
		})
	}
	o := r.Overall
	t.Rows = append(t.Rows, row{
		Name:   "overall",
		Values: []float64{o.PlanTotalSales, o.FactSales, o.PlanOrders, o.FactOrders, o.PlanAvgCheck, o.FactAvgCheck, o.PlanGuests, o.FactGuests},
	})

	t.Footer = append(t.Footer, fmt.Sprintf("Locations: %s", strings.Join(r.Locations, ", ")))
	for _, f := range result.Failures {
		t.Footer = append(t.Footer, fmt.Sprintf("Failed: %s: %v", f.Location, f.Err))
	}
	if len(result.Unconfigured) > 0 {
		t.Footer = append(t.Footer, fmt.Sprintf("Unconfigured: %s", strings.Join(result.Unconfigured, ", ")))
	}
	return c.render(t)
}

func (c *Reporter) render(t table) error {
	funcMap := template.FuncMap{
		"formatRow": func(name string, values []float64) string {
			var sb strings.Builder
			fmt.Fprintf(&sb, "| %-*s |", c.config.NameWidth, name)
			for _, v := range values {
				fmt.Fprintf(&sb, " %*.2f |", c.config.ValueWidth, v)
			}
			return sb.String()
		},
		"header": func() string {
			var sb strings.Builder
			fmt.Fprintf(&sb, "| %-*s |", c.config.NameWidth, "Category")
			for _, col := range columns {
				fmt.Fprintf(&sb, " %*s |", c.config.ValueWidth, col)
			}
			return sb.String()
		},
		"separator": func() string {
			var sb strings.Builder
			sb.WriteString("+" + strings.Repeat("-", c.config.NameWidth+2) + "+")
			for range columns {
				sb.WriteString(strings.Repeat("-", c.config.ValueWidth+2) + "+")
			}
			return sb.String()
		},
	}

	tmpl, err := template.New("report").Funcs(funcMap).Parse(tableTmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return tmpl.Execute(c.writer, t)
}
