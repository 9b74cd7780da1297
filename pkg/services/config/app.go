package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/spf13/viper"
)

const (
	EnvPrefix      = "SALES_ATLAS"
	DefaultName    = "sales-atlas"
	PlanSourceDir  = "dir"
	PlanSourceS3   = "s3"
	RecipientsFile = "file"
	RecipientsDB   = "duckdb"
)

type AppConfig struct {
	Plan       PlanConfig       `mapstructure:"plan"`
	Facts      FactsConfig      `mapstructure:"facts"`
	Engine     EngineSection    `mapstructure:"engine"`
	Networks   []NetworkConfig  `mapstructure:"networks"`
	Schedule   ScheduleConfig   `mapstructure:"schedule"`
	Notify     NotifyConfig     `mapstructure:"notify"`
	Recipients RecipientsConfig `mapstructure:"recipients"`
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	Report     ReportConfig     `mapstructure:"report"`
}

type PlanConfig struct {
	Source string       `mapstructure:"source"`
	Dir    string       `mapstructure:"dir"`
	S3     S3Config     `mapstructure:"s3"`
	Layout LayoutConfig `mapstructure:"layout"`
}

type S3Config struct {
	Bucket       string `mapstructure:"bucket"`
	Prefix       string `mapstructure:"prefix"`
	Profile      string `mapstructure:"profile"`
	Region       string `mapstructure:"region"`
	Endpoint     string `mapstructure:"endpoint"`
	UsePathStyle bool   `mapstructure:"use_path_style"`
}

// LayoutConfig holds 1-based column numbers of the plan sheet.
type LayoutConfig struct {
	HeaderRows       int    `mapstructure:"header_rows"`
	DateFormat       string `mapstructure:"date_format"`
	DateCol          int    `mapstructure:"date_col"`
	TotalSalesCol    int    `mapstructure:"total_sales_col"`
	HallSalesCol     int    `mapstructure:"hall_sales_col"`
	DeliverySalesCol int    `mapstructure:"delivery_sales_col"`
	AggSalesCol      int    `mapstructure:"aggregator_sales_col"`
	HallAvgCheckCol  int    `mapstructure:"hall_avg_check_col"`
	HallGuestsCol    int    `mapstructure:"hall_guests_col"`
	HallOrdersCol    int    `mapstructure:"hall_orders_col"`
	DeliveryAvgCol   int    `mapstructure:"delivery_avg_check_col"`
	AggAvgCol        int    `mapstructure:"aggregator_avg_check_col"`
	DeliveryOrderCol int    `mapstructure:"delivery_orders_col"`
	AggOrdersCol     int    `mapstructure:"aggregator_orders_col"`
}

type FactsConfig struct {
	ProfilesPath string        `mapstructure:"profiles_path"`
	Profile      string        `mapstructure:"profile"`
	Timeout      time.Duration `mapstructure:"timeout"`
	RetryMax     int           `mapstructure:"retry_max"`
}

type EngineSection struct {
	AggregatorKeywords []string `mapstructure:"aggregator_keywords"`
	Concurrency        int      `mapstructure:"concurrency"`
}

type NetworkConfig struct {
	Name      string   `mapstructure:"name"`
	Locations []string `mapstructure:"locations"`
}

type ScheduleConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Time     string `mapstructure:"time"`
	Timezone string `mapstructure:"timezone"`
}

type NotifyConfig struct {
	ChunkSize int            `mapstructure:"chunk_size"`
	Telegram  TelegramConfig `mapstructure:"telegram"`
}

type TelegramConfig struct {
	Token    string        `mapstructure:"token"`
	APIURL   string        `mapstructure:"api_url"`
	Rate     float64       `mapstructure:"rate"`
	Timeout  time.Duration `mapstructure:"timeout"`
	RetryMax int           `mapstructure:"retry_max"`
}

type RecipientsConfig struct {
	Source string `mapstructure:"source"`
	Path   string `mapstructure:"path"`
	DBPath string `mapstructure:"db_path"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

type ReportConfig struct {
	Currency string `mapstructure:"currency"`
}

func setDefaults(v *viper.Viper) {
	layout := domain.DefaultPlanLayout()

	v.SetDefault("plan.source", PlanSourceDir)
	v.SetDefault("plan.dir", "data_excels")
	v.SetDefault("plan.s3.bucket", "")
	v.SetDefault("plan.s3.prefix", "")
	v.SetDefault("plan.s3.profile", "")
	v.SetDefault("plan.s3.region", "")
	v.SetDefault("plan.s3.endpoint", "")
	v.SetDefault("plan.s3.use_path_style", false)
	v.SetDefault("plan.layout.header_rows", layout.HeaderRows)
	v.SetDefault("plan.layout.date_format", layout.DateFormat)
	v.SetDefault("plan.layout.date_col", layout.DateCol)
	v.SetDefault("plan.layout.total_sales_col", layout.TotalSalesCol)
	v.SetDefault("plan.layout.hall_sales_col", layout.HallSalesCol)
	v.SetDefault("plan.layout.delivery_sales_col", layout.DeliverySalesCol)
	v.SetDefault("plan.layout.aggregator_sales_col", layout.AggSalesCol)
	v.SetDefault("plan.layout.hall_avg_check_col", layout.HallAvgCheckCol)
	v.SetDefault("plan.layout.hall_guests_col", layout.HallGuestsCol)
	v.SetDefault("plan.layout.hall_orders_col", layout.HallOrdersCol)
	v.SetDefault("plan.layout.delivery_avg_check_col", layout.DeliveryAvgCol)
	v.SetDefault("plan.layout.aggregator_avg_check_col", layout.AggAvgCol)
	v.SetDefault("plan.layout.delivery_orders_col", layout.DeliveryOrderCol)
	v.SetDefault("plan.layout.aggregator_orders_col", layout.AggOrdersCol)

	v.SetDefault("facts.profiles_path", DefaultProfilesPath())
	v.SetDefault("facts.profile", "DEFAULT")
	v.SetDefault("facts.timeout", "30s")
	v.SetDefault("facts.retry_max", 3)

	v.SetDefault("engine.aggregator_keywords", domain.DefaultAggregatorKeywords())
	v.SetDefault("engine.concurrency", 4)

	v.SetDefault("schedule.enabled", true)
	v.SetDefault("schedule.time", "00:06")
	v.SetDefault("schedule.timezone", "Europe/Kyiv")

	v.SetDefault("notify.chunk_size", 3500)
	v.SetDefault("notify.telegram.api_url", "https://api.telegram.org")
	v.SetDefault("notify.telegram.rate", 20)
	v.SetDefault("notify.telegram.timeout", "15s")
	v.SetDefault("notify.telegram.retry_max", 2)

	v.SetDefault("recipients.source", RecipientsFile)
	v.SetDefault("recipients.path", "auto_report_users.json")
	v.SetDefault("recipients.db_path", "sales-atlas.db")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	v.SetDefault("report.currency", "грн")
}

// Load reads the app config from path, or from sales-atlas.{yaml,json,toml} in the
// working directory when path is empty. Environment variables prefixed with
// SALES_ATLAS_ override file values.
func Load(path string) (*AppConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("notify.telegram.token", EnvPrefix+"_NOTIFY_TELEGRAM_TOKEN", "TELEGRAM_BOT_TOKEN")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName(DefaultName)
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *AppConfig) Validate() error {
	switch c.Plan.Source {
	case PlanSourceDir:
		if c.Plan.Dir == "" {
			return errors.New("plan.dir is required for the dir plan source")
		}
	case PlanSourceS3:
		if c.Plan.S3.Bucket == "" {
			return errors.New("plan.s3.bucket is required for the s3 plan source")
		}
	default:
		return fmt.Errorf("unsupported plan source %q", c.Plan.Source)
	}

	switch c.Recipients.Source {
	case RecipientsFile, RecipientsDB:
	default:
		return fmt.Errorf("unsupported recipients source %q", c.Recipients.Source)
	}

	seen := make(map[string]struct{}, len(c.Networks))
	for _, n := range c.Networks {
		if n.Name == "" {
			return errors.New("network name is required")
		}
		if _, ok := seen[n.Name]; ok {
			return fmt.Errorf("duplicate network %q", n.Name)
		}
		seen[n.Name] = struct{}{}
	}

	if _, _, err := c.Schedule.Clock(); err != nil {
		return err
	}
	return nil
}

// EngineConfig returns the immutable engine configuration.
func (c *AppConfig) EngineConfig() domain.EngineConfig {
	networks := make([]domain.Network, 0, len(c.Networks))
	for _, n := range c.Networks {
		networks = append(networks, domain.Network{
			Name:      n.Name,
			Locations: append([]string{}, n.Locations...),
		})
	}

	keywords := c.Engine.AggregatorKeywords
	if len(keywords) == 0 {
		keywords = domain.DefaultAggregatorKeywords()
	}

	return domain.EngineConfig{
		AggregatorKeywords: append([]string{}, keywords...),
		Networks:           networks,
		PlanLayout:         c.Plan.Layout.PlanLayout(),
	}
}

func (l LayoutConfig) PlanLayout() domain.PlanLayout {
	return domain.PlanLayout{
		HeaderRows:       l.HeaderRows,
		DateFormat:       l.DateFormat,
		DateCol:          l.DateCol,
		TotalSalesCol:    l.TotalSalesCol,
		HallSalesCol:     l.HallSalesCol,
		DeliverySalesCol: l.DeliverySalesCol,
		AggSalesCol:      l.AggSalesCol,
		HallAvgCheckCol:  l.HallAvgCheckCol,
		HallGuestsCol:    l.HallGuestsCol,
		HallOrdersCol:    l.HallOrdersCol,
		DeliveryAvgCol:   l.DeliveryAvgCol,
		AggAvgCol:        l.AggAvgCol,
		DeliveryOrderCol: l.DeliveryOrderCol,
		AggOrdersCol:     l.AggOrdersCol,
	}
}

// Clock parses the HH:MM run time.
func (s ScheduleConfig) Clock() (hour, minute int, err error) {
	t, err := time.Parse("15:04", s.Time)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid schedule time %q: %w", s.Time, err)
	}
	return t.Hour(), t.Minute(), nil
}

func (s ScheduleConfig) Location() (*time.Location, error) {
	if s.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule timezone %q: %w", s.Timezone, err)
	}
	return loc, nil
}

func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}
