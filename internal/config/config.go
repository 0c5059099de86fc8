// config предоставляет структуру конфигурации сервиса алертов
// и функции загрузки из YAML/ENV с предсказуемым приоритетом.
package config

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config — корневая конфигурация сервиса.
// Приоритет источников:
//  1. явный путь, переданный в MustLoad/Load;
//  2. переменная окружения CONFIG_PATH;
//  3. файл ./local.yaml из рабочей директории;
//  4. переменные окружения.
type Config struct {
	Env      string         `yaml:"env"      env:"ENV" env-default:"local"`
	HTTP     HTTPConfig     `yaml:"http"`
	Ops      OpsConfig      `yaml:"ops"`
	Fetcher  FetcherConfig  `yaml:"fetcher"`
	Sources  SourcesConfig  `yaml:"sources"`
	AISearch AISearchConfig `yaml:"ai_search"`
	Limits   LimitsConfig   `yaml:"limits"`
	Timeouts TimeoutConfig  `yaml:"timeouts"`
}

// HTTPConfig — сетевые настройки публичного HTTP-сервера.
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"50080"`
}

// Addr возвращает адрес в формате host:port.
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, h.Port)
}

// OpsConfig — отдельный HTTP для Prometheus и проб.
type OpsConfig struct {
	Host string `yaml:"host" env:"OPS_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"OPS_PORT" env-default:"50085"`
}

// Addr возвращает адрес в формате host:port.
func (o OpsConfig) Addr() string {
	return net.JoinHostPort(o.Host, o.Port)
}

// FetcherConfig — параметры опроса новостной выдачи.
type FetcherConfig struct {
	// BaseURL — адрес поисковой RSS-выдачи.
	BaseURL string `yaml:"base_url" env:"FEED_BASE_URL" env-default:"https://news.google.com/rss/search"`
	// Timeout — таймаут одного апстрим-запроса.
	Timeout time.Duration `yaml:"timeout" env:"FEED_TIMEOUT" env-default:"8s"`
	// MaxConcurrent — ограничение параллелизма запросов к выдаче.
	MaxConcurrent int `yaml:"max_concurrent" env:"FEED_MAX_CONCURRENT" env-default:"8"`
	// Locales — локали по умолчанию, когда клиент их не передал.
	// Через ENV задаются списком с разделителем-запятой.
	Locales []string `yaml:"locales" env:"FEED_LOCALES" env-separator:"," env-default:"en,he,ar,fa"`
}

// SourcesConfig — пользовательские RSS-источники, опрашиваемые напрямую.
type SourcesConfig struct {
	// URLs — список лент; пустой список отключает компонент.
	URLs []string `yaml:"urls" env:"SOURCE_URLS" env-separator:","`
	// Timeout — таймаут чтения одной ленты.
	Timeout time.Duration `yaml:"timeout" env:"SOURCE_TIMEOUT" env-default:"8s"`
}

// AISearchConfig — настройки генеративного AI-поиска.
type AISearchConfig struct {
	// Enabled — выключатель компонента; без ключа поиск недоступен.
	Enabled bool `yaml:"enabled" env:"AI_SEARCH_ENABLED" env-default:"false"`
	// Endpoint — базовый адрес API (generateContent).
	Endpoint string `yaml:"endpoint" env:"AI_SEARCH_ENDPOINT" env-default:"https://generativelanguage.googleapis.com/v1beta"`
	// Model — идентификатор модели.
	Model string `yaml:"model" env:"AI_SEARCH_MODEL" env-default:"gemini-1.5-flash"`
	// APIKey — ключ API; только через ENV.
	APIKey string `yaml:"-" env:"GEMINI_API_KEY"`
	// Timeout — таймаут одного обращения к модели.
	Timeout time.Duration `yaml:"timeout" env:"AI_SEARCH_TIMEOUT" env-default:"20s"`
}

// LimitsConfig — серверные лимиты на выдачу.
type LimitsConfig struct {
	// MaxItems — жёсткий потолок числа items в ответе.
	MaxItems int `yaml:"max_items" env:"MAX_ITEMS" env-default:"80"`
	// DefaultHours — окно свежести при отсутствии/битом параметре hours.
	DefaultHours int `yaml:"default_hours" env:"DEFAULT_HOURS" env-default:"2"`
	// MaxHours — верхняя граница окна свежести.
	MaxHours int `yaml:"max_hours" env:"MAX_HOURS" env-default:"24"`
}

// TimeoutConfig — таймауты сервиса.
type TimeoutConfig struct {
	Service time.Duration `yaml:"service" env:"SERVICE" env-default:"15s"`
}

// MustLoad — обёртка над Load с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load загружает конфигурацию по приоритету:
// 1) явный путь; 2) CONFIG_PATH; 3) ./local.yaml; 4) ENV.
func Load(path string) (*Config, error) {
	var cfg Config

	tryRead := func(p string) (*Config, error) {
		if p == "" {
			return nil, fmt.Errorf("empty config path")
		}
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file does not exist: %s", p)
		}
		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		return &cfg, nil
	}

	// 1) Явный путь.
	if path != "" {
		c, err := tryRead(path)
		if err != nil {
			return nil, err
		}
		if err := c.validate(); err != nil {
			return nil, err
		}
		return c, nil
	}

	// 2) CONFIG_PATH.
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		c, err := tryRead(envPath)
		if err != nil {
			return nil, err
		}
		if err := c.validate(); err != nil {
			return nil, err
		}
		return c, nil
	}

	// 3) ./local.yaml.
	if _, err := os.Stat("local.yaml"); err == nil {
		if err := cleanenv.ReadConfig("local.yaml", &cfg); err != nil {
			return nil, fmt.Errorf("failed to read local.yaml: %w", err)
		}
		if err := cfg.validate(); err != nil {
			return nil, err
		}
		return &cfg, nil
	}

	// 4) Только ENV.
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate — базовая валидация значений.
func (c *Config) validate() error {
	if c.Fetcher.BaseURL == "" {
		return fmt.Errorf("fetcher.base_url is required")
	}
	if c.Fetcher.Timeout <= 0 {
		return fmt.Errorf("fetcher.timeout must be > 0")
	}
	if len(c.Fetcher.Locales) == 0 {
		return fmt.Errorf("fetcher.locales must contain at least one locale")
	}
	if c.Limits.MaxItems <= 0 {
		return fmt.Errorf("limits.max_items must be > 0")
	}
	if c.Limits.DefaultHours <= 0 {
		return fmt.Errorf("limits.default_hours must be > 0")
	}
	if c.Limits.MaxHours < c.Limits.DefaultHours {
		return fmt.Errorf("limits.max_hours must be >= limits.default_hours")
	}
	if c.AISearch.Enabled && c.AISearch.APIKey == "" {
		return fmt.Errorf("ai_search.enabled requires GEMINI_API_KEY")
	}
	return nil
}
