package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"SheetSentinel/internal/calculator"
	"SheetSentinel/internal/pipeline"
	"SheetSentinel/internal/strategy"
)

// Config holds all application configuration.
type Config struct {
	Source struct {
		Sheet   string        `yaml:"sheet"` // spreadsheet URL or bare id
		GID     int           `yaml:"gid"`
		File    string        `yaml:"file"` // local CSV, takes precedence over Sheet
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"source"`
	Indicators struct {
		SMAShort        int     `yaml:"sma_short"`
		SMALong         int     `yaml:"sma_long"`
		EMA             int     `yaml:"ema"`
		RSI             int     `yaml:"rsi"`
		BollingerPeriod int     `yaml:"bollinger_period"`
		BollingerWidth  float64 `yaml:"bollinger_width"`
		ExtraRSI        []int   `yaml:"extra_rsi"` // additional RSI horizons, e.g. [7, 28]
	} `yaml:"indicators"`
	Signal struct {
		RSIOverbought    float64 `yaml:"rsi_overbought"`
		RSIOversold      float64 `yaml:"rsi_oversold"`
		RejectDuplicates bool    `yaml:"reject_duplicates"`
	} `yaml:"signal"`
	Schedule struct {
		Cron string `yaml:"cron"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load starts from defaults, overlays the YAML file, then applies environment
// variable overrides (a .env file in the working directory is honoured).
// A missing file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if len(data) > 0 {
			// Keys absent from the file keep their defaults; explicit zeros stay zero.
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	// Environment variable overrides
	if v := os.Getenv("SHEET_URL"); v != "" {
		cfg.Source.Sheet = v
	}
	if v := os.Getenv("SHEET_GID"); v != "" {
		if gid, err := strconv.Atoi(v); err == nil {
			cfg.Source.GID = gid
		}
	}
	if v := os.Getenv("SOURCE_FILE"); v != "" {
		cfg.Source.File = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("CRON_SCHEDULE"); v != "" {
		cfg.Schedule.Cron = v
	}
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("RSI_PERIOD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Indicators.RSI = n
		}
	}

	return cfg, nil
}

func defaults() *Config {
	def := calculator.DefaultParams()
	th := strategy.DefaultThresholds()

	cfg := &Config{}
	cfg.Source.Timeout = 30 * time.Second
	cfg.Indicators.SMAShort = def.SMAShort
	cfg.Indicators.SMALong = def.SMALong
	cfg.Indicators.EMA = def.EMA
	cfg.Indicators.RSI = def.RSI
	cfg.Indicators.BollingerPeriod = def.BollingerPeriod
	cfg.Indicators.BollingerWidth = def.BollingerWidth
	cfg.Signal.RSIOverbought = th.Overbought
	cfg.Signal.RSIOversold = th.Oversold
	cfg.Schedule.Cron = "0 */15 * * * *"
	cfg.Server.Addr = ":8080"
	cfg.Log.Level = "info"
	return cfg
}

// Validate checks that a data source is set and the analysis parameters are usable.
func (c *Config) Validate() error {
	if c.Source.File == "" && c.Source.Sheet == "" {
		return fmt.Errorf("source.file or source.sheet is required")
	}
	if c.Source.GID < 0 {
		return fmt.Errorf("source.gid must not be negative")
	}
	if c.Source.Timeout <= 0 {
		return fmt.Errorf("source.timeout must be positive")
	}
	if err := c.PipelineOptions().Validate(); err != nil {
		return fmt.Errorf("analysis parameters: %w", err)
	}
	return nil
}

// PipelineOptions converts the config into explicit pipeline parameters.
func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Indicators: calculator.Params{
			SMAShort:        c.Indicators.SMAShort,
			SMALong:         c.Indicators.SMALong,
			EMA:             c.Indicators.EMA,
			RSI:             c.Indicators.RSI,
			BollingerPeriod: c.Indicators.BollingerPeriod,
			BollingerWidth:  c.Indicators.BollingerWidth,
			ExtraRSI:        c.Indicators.ExtraRSI,
		},
		Signal: strategy.Thresholds{
			Overbought: c.Signal.RSIOverbought,
			Oversold:   c.Signal.RSIOversold,
		},
		RejectDuplicates: c.Signal.RejectDuplicates,
	}
}

// NotifyEnabled reports whether Telegram credentials are present.
func (c *Config) NotifyEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
