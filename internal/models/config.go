package models

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type TrackerConfig struct {
	TickInterval time.Duration `mapstructure:"tick_interval"`
	StageMinutes []int         `mapstructure:"stage_minutes"` // countdown for stages 1..3
}

type MenuConfig struct {
	Source      string `mapstructure:"source"` // static, faker or postgres
	ExtraItems  int    `mapstructure:"extra_items"`
	DatabaseURL string `mapstructure:"database_url"`
}

type OutputConfig struct {
	Format        string        `mapstructure:"format"` // none, console, json, csv, parquet, kafka
	Path          string        `mapstructure:"path"`
	Folder        string        `mapstructure:"folder"`
	FlushInterval time.Duration `mapstructure:"flush_interval"`
	BatchSize     int           `mapstructure:"batch_size"`
}

type KafkaConfig struct {
	BrokerList       string `mapstructure:"broker_list"`
	SessionTimeoutMs int    `mapstructure:"session_timeout_ms"`
}

type CloudStorageConfig struct {
	Provider   string `mapstructure:"provider"` // empty for local output, or s3
	Region     string `mapstructure:"region"`
	BucketName string `mapstructure:"bucket_name"`
}

type DemoConfig struct {
	Orders int `mapstructure:"orders"`
}

type Config struct {
	RestaurantName     string             `mapstructure:"restaurant_name"`
	DeliverySLA        time.Duration      `mapstructure:"delivery_sla"`
	HTTPAddr           string             `mapstructure:"http_addr"`
	CORSAllowedOrigins []string           `mapstructure:"cors_allowed_origins"`
	PublicBaseURL      string             `mapstructure:"public_base_url"`
	SessionTTL         time.Duration      `mapstructure:"session_ttl"`
	LogLevel           string             `mapstructure:"log_level"`
	Seed               int64              `mapstructure:"seed"`
	Tracker            TrackerConfig      `mapstructure:"tracker"`
	Menu               MenuConfig         `mapstructure:"menu"`
	Output             OutputConfig       `mapstructure:"output"`
	Kafka              KafkaConfig        `mapstructure:"kafka"`
	CloudStorage       CloudStorageConfig `mapstructure:"cloud_storage"`
	Demo               DemoConfig         `mapstructure:"demo"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("restaurant_name", DefaultRestaurantName)
	v.SetDefault("delivery_sla", DefaultDeliverySLA.String())
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("cors_allowed_origins", []string{"*"})
	v.SetDefault("public_base_url", "http://localhost:8080")
	v.SetDefault("session_ttl", (24 * time.Hour).String())
	v.SetDefault("log_level", "info")
	v.SetDefault("seed", 42)
	v.SetDefault("tracker.tick_interval", time.Minute.String())
	v.SetDefault("tracker.stage_minutes", []int{5, 20, 20})
	v.SetDefault("menu.source", "static")
	v.SetDefault("menu.extra_items", 0)
	v.SetDefault("output.format", "none")
	v.SetDefault("output.path", "output")
	v.SetDefault("output.folder", "events")
	v.SetDefault("output.flush_interval", time.Second.String())
	v.SetDefault("output.batch_size", 100)
	v.SetDefault("kafka.broker_list", "localhost:9092")
	v.SetDefault("demo.orders", 0)
}

// LoadConfig reads configuration from cfgFile (optional), the environment
// and any flags already bound to v.
func LoadConfig(v *viper.Viper, cfgFile string) (*Config, error) {
	SetDefaults(v)
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		)
	})
	if err := v.Unmarshal(&config, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (cfg *Config) Validate() error {
	if cfg.DeliverySLA <= 0 {
		return fmt.Errorf("delivery_sla must be positive, got %s", cfg.DeliverySLA)
	}
	if cfg.SessionTTL <= 0 {
		return fmt.Errorf("session_ttl must be positive, got %s", cfg.SessionTTL)
	}
	if cfg.Tracker.TickInterval <= 0 {
		return fmt.Errorf("tracker.tick_interval must be positive, got %s", cfg.Tracker.TickInterval)
	}
	if len(cfg.Tracker.StageMinutes) != 3 {
		return fmt.Errorf("tracker.stage_minutes needs 3 values, got %d", len(cfg.Tracker.StageMinutes))
	}
	for i, m := range cfg.Tracker.StageMinutes {
		if m < 0 {
			return fmt.Errorf("tracker.stage_minutes[%d] is negative", i)
		}
	}
	switch cfg.Menu.Source {
	case "static", "faker":
	case "postgres":
		if cfg.Menu.DatabaseURL == "" {
			return fmt.Errorf("menu.database_url is required for the postgres menu source")
		}
	default:
		return fmt.Errorf("unsupported menu source: %s", cfg.Menu.Source)
	}
	switch cfg.Output.Format {
	case "none", "console", "json", "csv", "parquet", "kafka":
	default:
		return fmt.Errorf("unsupported output format: %s", cfg.Output.Format)
	}
	return nil
}
