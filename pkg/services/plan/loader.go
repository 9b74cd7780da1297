package plan

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// RowWarning describes a plan row that was skipped because its date could not be parsed.
type RowWarning struct {
	Row   int // 1-based sheet row
	Value string
	Err   error
}

func (w RowWarning) String() string {
	return fmt.Sprintf("row %d: invalid date %q: %v", w.Row, w.Value, w.Err)
}

type Option func(*Loader)

// WithWarningHook registers a callback invoked for every skipped row.
func WithWarningHook(hook func(RowWarning)) Option {
	return func(l *Loader) {
		l.onWarning = hook
	}
}

// Loader turns plan sheets into a normalized plan table.
type Loader struct {
	layout    domain.PlanLayout
	onWarning func(RowWarning)
}

func NewLoader(layout domain.PlanLayout, opts ...Option) *Loader {
	l := &Loader{layout: layout}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadWorkbook reads the active sheet of an xlsx workbook.
func (l *Loader) LoadWorkbook(ctx context.Context, r io.Reader) (*domain.PlanTable, []RowWarning, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open plan workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read plan sheet %q: %w", sheet, err)
	}

	table, warnings := l.ParseRows(ctx, rows)
	return table, warnings, nil
}

// ParseRows builds a plan table from raw sheet rows. Rows with a blank date are skipped,
// rows with an unparsable date are skipped and reported, numeric cells default to 0.
// A later row for the same date overwrites an earlier one.
func (l *Loader) ParseRows(ctx context.Context, rows [][]string) (*domain.PlanTable, []RowWarning) {
	logger := zerolog.Ctx(ctx)
	lay := l.layout
	table := domain.NewPlanTable()
	var warnings []RowWarning

	for i, row := range rows {
		if i < lay.HeaderRows {
			continue
		}

		rawDate := strings.TrimSpace(cell(row, lay.DateCol))
		if rawDate == "" {
			continue
		}

		date, err := parseDate(lay.DateFormat, rawDate)
		if err != nil {
			w := RowWarning{Row: i + 1, Value: rawDate, Err: err}
			warnings = append(warnings, w)
			logger.Warn().
				Int("row", w.Row).
				Str("value", rawDate).
				Err(err).
				Msg("skipping plan row with invalid date")
			if l.onWarning != nil {
				l.onWarning(w)
			}
			continue
		}

		num := func(col int) float64 {
			return ParseNumber(cell(row, col))
		}

		hallGuests := num(lay.HallGuestsCol)
		table.SetTotalSales(date, num(lay.TotalSalesCol))
		table.SetEntry(date, domain.CategoryHall, domain.PlanEntry{
			Sales:    num(lay.HallSalesCol),
			Orders:   num(lay.HallOrdersCol),
			AvgCheck: num(lay.HallAvgCheckCol),
			Guests:   &hallGuests,
		})
		table.SetEntry(date, domain.CategoryDelivery, domain.PlanEntry{
			Sales:    num(lay.DeliverySalesCol),
			Orders:   num(lay.DeliveryOrderCol),
			AvgCheck: num(lay.DeliveryAvgCol),
		})
		table.SetEntry(date, domain.CategoryAggregator, domain.PlanEntry{
			Sales:    num(lay.AggSalesCol),
			Orders:   num(lay.AggOrdersCol),
			AvgCheck: num(lay.AggAvgCol),
		})
	}

	return table, warnings
}

// ParseNumber parses a spreadsheet cell leniently: non-breaking and regular spaces are
// dropped, a lone comma is read as the decimal separator, anything else unparsable is 0.
func ParseNumber(raw string) float64 {
	s := strings.ReplaceAll(raw, "\u00a0", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// parseDate accepts the layout's textual format and, for cells stored as real dates,
// the spreadsheet serial number.
func parseDate(layout, raw string) (time.Time, error) {
	date, err := time.Parse(layout, raw)
	if err == nil {
		return date, nil
	}
	serial, serr := strconv.ParseFloat(raw, 64)
	if serr != nil || serial < 1 {
		return time.Time{}, err
	}
	return excelize.ExcelDateToTime(serial, false)
}

func cell(row []string, col int) string {
	if col < 1 || col > len(row) {
		return ""
	}
	return row[col-1]
}
