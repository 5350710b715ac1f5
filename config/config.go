package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const DefaultConfigPath = "config/config.yaml"

type Config struct {
	App       AppConfig       `yaml:"app"`
	Server    ServerConfig    `yaml:"server"`
	Weather   WeatherConfig   `yaml:"weather"`
	Image     ImageConfig     `yaml:"image"`
	Cache     CacheConfig     `yaml:"cache"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	CORS      CORSConfig      `yaml:"cors"`
	Sentry    SentryConfig    `yaml:"sentry"`
	Log       LogConfig       `yaml:"log"`
}

type AppConfig struct {
	Name    string `yaml:"-" envconfig:"APP_NAME" default:"dioramacast"`
	Version string `yaml:"-" envconfig:"APP_VERSION" default:"1.0.0"`
	Env     string `yaml:"-" envconfig:"APP_ENV" default:"development"`
}

type ServerConfig struct {
	Port         string `yaml:"-" envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout  int    `yaml:"-" envconfig:"SERVER_READ_TIMEOUT" default:"10"`
	WriteTimeout int    `yaml:"-" envconfig:"SERVER_WRITE_TIMEOUT" default:"10"`
	IdleTimeout  int    `yaml:"-" envconfig:"SERVER_IDLE_TIMEOUT" default:"120"`
}

type WeatherAPIConfig struct {
	Name    string `yaml:"name"`
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key,omitempty"`
	Timeout int    `yaml:"timeout"`
}

type WeatherConfig struct {
	APIs []WeatherAPIConfig `yaml:"apis"`

	// OpenWeatherKey overrides the api_key of the "openweathermap" entry so
	// the credential never has to live in the YAML file.
	OpenWeatherKey string `yaml:"-" envconfig:"OPENWEATHER_API_KEY"`
}

type ImageConfig struct {
	Provider string `yaml:"-" envconfig:"IMAGE_PROVIDER" default:"gemini"`
	Model    string `yaml:"-" envconfig:"IMAGE_MODEL" default:"gemini-2.5-flash-image"`
	APIKey   string `yaml:"-" envconfig:"GEMINI_API_KEY"`
	Timeout  int    `yaml:"-" envconfig:"IMAGE_TIMEOUT" default:"60"`
}

type CacheConfig struct {
	RedisURL string `yaml:"-" envconfig:"REDIS_URL"`
	TTL      int    `yaml:"-" envconfig:"CACHE_TTL" default:"300"`
}

type RateLimitConfig struct {
	Enabled          bool `yaml:"-" envconfig:"RATE_LIMIT_ENABLED" default:"true"`
	APIPerMinute     int  `yaml:"-" envconfig:"RATE_LIMIT_API_PER_MINUTE" default:"50"`
	WeatherPerMinute int  `yaml:"-" envconfig:"RATE_LIMIT_WEATHER_PER_MINUTE" default:"30"`
	ImagePerMinute   int  `yaml:"-" envconfig:"RATE_LIMIT_IMAGE_PER_MINUTE" default:"2"`
}

type CORSConfig struct {
	AllowedOrigins string `yaml:"-" envconfig:"ALLOWED_ORIGINS" default:"*"`
}

type SentryConfig struct {
	DSN string `yaml:"-" envconfig:"SENTRY_DSN"`
}

type LogConfig struct {
	Level  string `yaml:"-" envconfig:"LOG_LEVEL" default:"info"`
	Format string `yaml:"-" envconfig:"LOG_FORMAT" default:"json"`
}

// ConfigProvider loads and validates a Config. The indirection exists so
// tests can substitute a canned configuration.
type ConfigProvider interface {
	Load() (*Config, error)
	Validate(config *Config) error
}

type FileConfigProvider struct {
	path string
}

func NewFileConfigProvider(path string) *FileConfigProvider {
	return &FileConfigProvider{path: path}
}

func (p *FileConfigProvider) Load() (*Config, error) {
	var cnf Config

	// YAML file first, environment variables override.
	if err := p.loadFromFile(&cnf); err != nil {
		return nil, err
	}

	if err := envconfig.Process("", &cnf); err != nil {
		return nil, fmt.Errorf("error environment variable parsing: %w", err)
	}

	if cnf.Weather.OpenWeatherKey != "" {
		for i := range cnf.Weather.APIs {
			if cnf.Weather.APIs[i].Name == "openweathermap" {
				cnf.Weather.APIs[i].APIKey = cnf.Weather.OpenWeatherKey
			}
		}
	}

	return &cnf, nil
}

// loadFromFile is a no-op when the file does not exist: the service can run
// on environment variables alone.
func (p *FileConfigProvider) loadFromFile(cnf *Config) error {
	yamlData, err := os.ReadFile(p.path)
	if err != nil {
		return nil
	}

	if err := yaml.Unmarshal(yamlData, cnf); err != nil {
		return fmt.Errorf("failed to parse YAML config %s: %w", p.path, err)
	}

	return nil
}

func (p *FileConfigProvider) Validate(cnf *Config) error {
	if cnf.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}
	if cnf.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}
	for _, api := range cnf.Weather.APIs {
		if api.Name == "" {
			return fmt.Errorf("weather.apis entries require a name")
		}
	}
	switch cnf.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error")
	}
	return nil
}

func NewConfig() (*Config, error) {
	return NewConfigWithProvider(NewFileConfigProvider(DefaultConfigPath))
}

func NewConfigWithProvider(provider ConfigProvider) (*Config, error) {
	cnf, err := provider.Load()
	if err != nil {
		return nil, err
	}

	if err := provider.Validate(cnf); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cnf, nil
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

func (c *Config) GetWeatherAPIs() []WeatherAPIConfig {
	return c.Weather.APIs
}

func (c *Config) GetWeatherAPIByName(name string) (*WeatherAPIConfig, bool) {
	for i := range c.Weather.APIs {
		if c.Weather.APIs[i].Name == name {
			return &c.Weather.APIs[i], true
		}
	}
	return nil, false
}
