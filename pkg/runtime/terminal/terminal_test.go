package terminal

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/de-tools/sales-atlas/pkg/metrics"
	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/runtime/app"
	"github.com/de-tools/sales-atlas/pkg/services/config"
	"github.com/de-tools/sales-atlas/pkg/services/plan"
	"github.com/de-tools/sales-atlas/pkg/services/report"
	"github.com/de-tools/sales-atlas/pkg/store/planfile"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type staticFacts []domain.RawFactRow

func (f staticFacts) FetchFacts(context.Context, string, time.Time, time.Time) ([]domain.RawFactRow, error) {
	return f, nil
}

func writeWorkbook(t *testing.T, path string) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	// date, total, hall, delivery, aggregator, hall avg, -, guests, hall orders,
	// delivery avg, aggregator avg, delivery orders, aggregator orders
	row := []any{nil, "10.05.2024", 3500, 2000, 1000, 500, 100, nil, 30, 20, 100, 100, 10, 5}
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &row))
	require.NoError(t, f.SaveAs(path))
}

type fixture struct {
	dir     string
	planDir string
	build   Builder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)

	fx := &fixture{dir: dir, planDir: filepath.Join(dir, "plans")}
	require.NoError(t, os.MkdirAll(fx.planDir, 0o755))
	writeWorkbook(t, filepath.Join(fx.planDir, "A.xlsx"))

	facts := staticFacts{
		{NetSales: decimal.NewFromInt(9000), Orders: decimal.NewFromInt(40), Guests: decimal.NewFromInt(50)},
		{ChannelLabel: "Courier", NetSales: decimal.NewFromInt(1950), Orders: decimal.NewFromInt(8)},
	}

	fx.build = func(_ context.Context, cfg *config.AppConfig) (*app.App, error) {
		cfg.Recipients.DBPath = filepath.Join(dir, "recipients.db")
		engine := domain.EngineConfig{
			AggregatorKeywords: domain.DefaultAggregatorKeywords(),
			Networks:           []domain.Network{{Name: "Alpha", Locations: []string{"A", "B"}}},
			PlanLayout:         domain.DefaultPlanLayout(),
		}
		plans := planfile.NewStore(fx.planDir, plan.NewLoader(engine.PlanLayout))
		return &app.App{
			Config:   cfg,
			Engine:   engine,
			Location: time.UTC,
			Metrics:  metrics.NewRecorder(),
			Plans:    plans,
			Reports:  report.NewService(engine, plans, facts),
		}, nil
	}
	return fx
}

func (fx *fixture) run(args ...string) (string, error) {
	var buf bytes.Buffer
	cli := NewCLI(Options{Output: &buf, Build: fx.build})
	cli.rootCmd.SetArgs(args)
	cli.rootCmd.SetOut(io.Discard)
	cli.rootCmd.SetErr(io.Discard)

	err := cli.Execute()
	return buf.String(), err
}

func TestCLI_Location(t *testing.T) {
	// Given
	fx := newFixture(t)

	// When
	out, err := fx.run("location", "--name", "A", "--date", "2024-05-10")

	// Then
	require.NoError(t, err)
	assert.Contains(t, out, "🏢 Заведение: A")
	assert.Contains(t, out, "• *План Продажи:* 1000 грн | *Факт Продажи:* 1950 грн")
	assert.Contains(t, out, "• *План Гостей Зал:* 30 | *Факт Гостей:* 50")
}

func TestCLI_Location_Table(t *testing.T) {
	fx := newFixture(t)

	out, err := fx.run("location", "--name", "A", "--date", "2024-05-10", "--format", "table")

	require.NoError(t, err)
	assert.Contains(t, out, "A (2024-05-10)")
	assert.Contains(t, out, "| delivery     |      1000.00 |      1950.00 |")
}

func TestCLI_Location_Unconfigured(t *testing.T) {
	fx := newFixture(t)

	out, err := fx.run("location", "--name", "Z", "--date", "2024-05-10")

	assert.ErrorIs(t, err, domain.ErrUnconfiguredLocation)
	assert.Contains(t, out, "не настроено")
}

func TestCLI_Location_BadDate(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.run("location", "--name", "A", "--date", "10.05.2024")

	assert.ErrorContains(t, err, "expected YYYY-MM-DD")
}

func TestCLI_Network(t *testing.T) {
	fx := newFixture(t)

	out, err := fx.run("network", "--date", "2024-05-10", "--format", "table")

	require.NoError(t, err)
	assert.Contains(t, out, "Alpha (2024-05-10) [success]")
	assert.Contains(t, out, "Unconfigured: B")
}

func TestCLI_Locations(t *testing.T) {
	fx := newFixture(t)

	out, err := fx.run("locations")

	require.NoError(t, err)
	assert.Equal(t, "A\n", out)
}

func TestCLI_AutoReport_DryRun(t *testing.T) {
	fx := newFixture(t)

	out, err := fx.run("autoreport", "--date", "2024-05-10", "--dry-run")

	require.NoError(t, err)
	assert.Contains(t, out, "*Автоотчёт за 2024-05-10*")
	assert.Contains(t, out, "Сеть: Alpha")
	assert.Contains(t, out, "ℹ️ Нет файла плана: B")
}

func TestCLI_Recipients(t *testing.T) {
	fx := newFixture(t)

	out, err := fx.run("recipients", "add", "100", "200", "100")
	require.NoError(t, err)
	assert.Equal(t, "2 recipient(s) added\n", out)

	out, err = fx.run("recipients", "remove", "100")
	require.NoError(t, err)
	assert.Equal(t, "recipient 100 removed\n", out)

	_, err = fx.run("recipients", "remove", "100")
	assert.ErrorContains(t, err, "not found")

	out, err = fx.run("recipients", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "200\t")
	assert.NotContains(t, out, "100\t")
}

func TestCLI_PlanUpload(t *testing.T) {
	fx := newFixture(t)
	src := filepath.Join(fx.dir, "upload.xlsx")
	writeWorkbook(t, src)

	out, err := fx.run("plan", "upload", src, "--location", "C")
	require.NoError(t, err)
	assert.Equal(t, "plan for C stored\n", out)

	out, err = fx.run("locations")
	require.NoError(t, err)
	assert.Equal(t, "A\nC\n", out)
}
