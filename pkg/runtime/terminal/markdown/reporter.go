package markdown

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
)

const DefaultCurrency = "грн"

const categoryTmpl = `{{define "category"}}{{.Emoji}} {{esc .Title}}:
• *План Продажи:* {{money0 .PlanSales}} | *Факт Продажи:* {{money0 .FactSales}}
• *План Заказов:* {{f0 .PlanOrders}} | *Факт Заказов:* {{f0 .FactOrders}}
• *План Ср.Заказ:* {{money0 .PlanAvgCheck}} | *Факт Ср.Заказ:* {{money2 .FactAvgCheck}}
{{with .Guests}}• *План Гостей Зал:* {{f0 .Plan}} | *Факт Гостей:* {{f0 .Fact}}
{{end}}{{end}}`

const overallTmpl = `{{define "overall"}}🏷️ Общая (доставка+зал+агрегаторы):
• *План Продажи (Итого):* {{money0 .PlanTotalSales}} | *Факт Продажи:* {{money0 .FactSales}}
• *План Заказов (сумм.):* {{f0 .PlanOrders}} | *Факт Заказов:* {{f0 .FactOrders}}
• *План Ср.Заказ:* {{money0 .PlanAvgCheck}} | *Факт Ср.Заказ:* {{money2 .FactAvgCheck}}
• *План Гостей (зал):* {{f0 .PlanGuests}} | *Факт Гостей:* {{f0 .FactGuests}}
{{end}}`

const locationTmpl = `🏢 Заведение: {{esc .Name}}
📅 Дата: {{esc .Date}}
---

{{range .Categories}}{{template "category" .}}
{{end}}{{template "overall" .Overall}}`

const rollupTmpl = `*Автоотчёт за {{esc .Date}}*

Сеть: {{esc .Networks}}
---

{{if .Empty}}{{noLocations}}
{{else}}{{if .AllFailed}}❗ Не удалось получить данные ни по одной точке.

{{end}}{{range .Categories}}{{template "category" .}}
{{end}}{{template "overall" .Overall}}{{end}}{{if .Failures}}
⚠️ Нет данных из iiko: {{esc .Failures}}
{{end}}{{if .Unconfigured}}
ℹ️ Нет файла плана: {{esc .Unconfigured}}
{{end}}`

const NoLocationsText = "Нет загруженных файлов с данными заведений."

var emoji = map[domain.Category]string{
	domain.CategoryDelivery:   "🚚",
	domain.CategoryHall:       "🏰",
	domain.CategoryAggregator: "📦",
}

// Reporter renders reports as Telegram Markdown.
type Reporter struct {
	writer   io.Writer
	location *template.Template
	rollup   *template.Template
}

func NewReporter(writer io.Writer, currency string) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	if currency == "" {
		currency = DefaultCurrency
	}

	funcs := template.FuncMap{
		"esc":         EscapeMarkdown,
		"f0":          func(v float64) string { return fmt.Sprintf("%.0f", v) },
		"money0":      func(v float64) string { return fmt.Sprintf("%.0f %s", v, currency) },
		"money2":      func(v float64) string { return fmt.Sprintf("%.2f %s", v, currency) },
		"noLocations": func() string { return NoLocationsText },
	}
	parse := func(name, text string) *template.Template {
		return template.Must(template.New(name).Funcs(funcs).Parse(categoryTmpl + overallTmpl + text))
	}

	return &Reporter{
		writer:   writer,
		location: parse("location", locationTmpl),
		rollup:   parse("rollup", rollupTmpl),
	}
}

func (c *Reporter) HandleLocation(report *domain.LocationReport) error {
	view := locationView{
		Name:       report.Location,
		Date:       domain.DateKey(report.Date),
		Categories: make([]categoryView, 0, len(domain.Categories)),
		Overall:    overallView(report.Overall),
	}
	for _, cat := range domain.Categories {
		m := report.Category(cat)
		view.Categories = append(view.Categories, categoryView{
			Emoji:        emoji[cat],
			Title:        cat.Title(),
			PlanSales:    m.PlanSales,
			FactSales:    m.FactSales,
			PlanOrders:   m.PlanOrders,
			FactOrders:   m.FactOrders,
			PlanAvgCheck: m.PlanAvgCheck,
			FactAvgCheck: m.FactAvgCheck,
			Guests:       m.Guests,
		})
	}

	if err := c.location.Execute(c.writer, view); err != nil {
		return fmt.Errorf("failed to render location report: %w", err)
	}
	return nil
}

func (c *Reporter) HandleRollup(result *domain.RollupResult) error {
	r := result.Report
	view := rollupView{
		Date:       domain.DateKey(r.Date),
		Networks:   strings.Join(r.Networks, ", "),
		AllFailed:  result.Status == domain.RollupStatusFailed,
		Empty:      len(r.Locations) == 0 && len(result.Failures) == 0,
		Categories: make([]categoryView, 0, len(domain.Categories)),
		Overall: overallView{
			PlanTotalSales: r.Overall.PlanTotalSales,
			PlanOrders:     r.Overall.PlanOrders,
			PlanAvgCheck:   r.Overall.PlanAvgCheck,
			FactSales:      r.Overall.FactSales,
			FactOrders:     r.Overall.FactOrders,
			FactAvgCheck:   r.Overall.FactAvgCheck,
			PlanGuests:     r.Overall.PlanGuests,
			FactGuests:     r.Overall.FactGuests,
		},
		Unconfigured: strings.Join(result.Unconfigured, ", "),
	}
	for _, cat := range domain.Categories {
		t := r.Category(cat)
		view.Categories = append(view.Categories, categoryView{
			Emoji:        emoji[cat],
			Title:        cat.Title(),
			PlanSales:    t.PlanSales,
			FactSales:    t.FactSales,
			PlanOrders:   t.PlanOrders,
			FactOrders:   t.FactOrders,
			PlanAvgCheck: t.PlanAvgCheck,
			FactAvgCheck: t.FactAvgCheck,
			Guests:       t.Guests,
		})
	}
	failed := make([]string, 0, len(result.Failures))
	for _, f := range result.Failures {
		failed = append(failed, f.Location)
	}
	view.Failures = strings.Join(failed, ", ")

	if err := c.rollup.Execute(c.writer, view); err != nil {
		return fmt.Errorf("failed to render rollup report: %w", err)
	}
	return nil
}

// HandleError writes a message telling apart a location without a plan, a failed
// fetch and any other failure.
func (c *Reporter) HandleError(location string, err error) error {
	_, werr := io.WriteString(c.writer, ErrorText(location, err)+"\n")
	return werr
}

// RenderLocation returns the Markdown text of a location report.
func RenderLocation(report *domain.LocationReport, currency string) (string, error) {
	var buf bytes.Buffer
	if err := NewReporter(&buf, currency).HandleLocation(report); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderRollup returns the Markdown text of a network rollup.
func RenderRollup(result *domain.RollupResult, currency string) (string, error) {
	var buf bytes.Buffer
	if err := NewReporter(&buf, currency).HandleRollup(result); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func ErrorText(location string, err error) string {
	name := EscapeMarkdown(location)
	switch {
	case errors.Is(err, domain.ErrUnconfiguredLocation):
		return fmt.Sprintf("⚠️ Заведение %s не настроено: нет файла плана.", name)
	case errors.Is(err, domain.ErrFactFetchFailed):
		return fmt.Sprintf("❗ Не удалось получить данные из iiko для %s. Попробуйте позже.", name)
	default:
		return fmt.Sprintf("❗ Ошибка формирования отчёта для %s.", name)
	}
}

var markdownEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `_`, `\_`, "`", "\\`", `[`, `\[`)

// EscapeMarkdown escapes the characters significant in legacy Telegram Markdown.
func EscapeMarkdown(text string) string {
	return markdownEscaper.Replace(text)
}

type categoryView struct {
	Emoji        string
	Title        string
	PlanSales    float64
	FactSales    float64
	PlanOrders   float64
	FactOrders   float64
	PlanAvgCheck float64
	FactAvgCheck float64
	Guests       *domain.GuestMetrics
}

type overallView struct {
	PlanTotalSales float64
	PlanOrders     float64
	PlanAvgCheck   float64
	FactSales      float64
	FactOrders     float64
	FactAvgCheck   float64
	PlanGuests     float64
	FactGuests     float64
}

type locationView struct {
	Name       string
	Date       string
	Categories []categoryView
	Overall    overallView
}

type rollupView struct {
	Date         string
	Networks     string
	AllFailed    bool
	Empty        bool
	Categories   []categoryView
	Overall      overallView
	Failures     string
	Unconfigured string
}
