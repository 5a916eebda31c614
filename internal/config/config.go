package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultModel        = "gpt-4o-mini"
	DefaultTemperature  = 0.7
	DefaultNumQuestions = 5
	MinQuestions        = 3
	MaxQuestions        = 10
)

type Config struct {
	Server struct {
		Port           string   `yaml:"port"`
		CookieSecret   string   `yaml:"cookie_secret"`
		AllowedOrigins []string `yaml:"allowed_origins"`
		MaxUploadMB    int64    `yaml:"max_upload_mb"`
	} `yaml:"server"`
	Log struct {
		Mode string `yaml:"mode"`
	} `yaml:"log"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	SQLite struct {
		Path string `yaml:"path"`
	} `yaml:"sqlite"`
	LLM struct {
		APIKey       string  `yaml:"api_key"`
		BaseURL      string  `yaml:"base_url"`
		Model        string  `yaml:"model"`
		Temperature  float32 `yaml:"temperature"`
		NumQuestions int     `yaml:"num_questions"`
		Mock         bool    `yaml:"mock"`
	} `yaml:"llm"`
	Cache struct {
		TTL string `yaml:"ttl"`
	} `yaml:"cache"`
}

// Load reads YAML config from path. A missing file yields defaults so the
// service can start with environment variables alone.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.LLM.APIKey == "" {
		c.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if c.LLM.Model == "" {
		c.LLM.Model = DefaultModel
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = DefaultTemperature
	}
	c.LLM.NumQuestions = ClampQuestions(c.LLM.NumQuestions)
	if c.SQLite.Path == "" && c.Postgres.URL == "" {
		c.SQLite.Path = "study_assistant.db"
	}
	if c.Server.MaxUploadMB <= 0 {
		c.Server.MaxUploadMB = 20
	}
	if c.Log.Mode == "" {
		c.Log.Mode = "development"
	}
}

// ClampQuestions bounds a requested question count; zero means the default.
func ClampQuestions(n int) int {
	switch {
	case n == 0:
		return DefaultNumQuestions
	case n < MinQuestions:
		return MinQuestions
	case n > MaxQuestions:
		return MaxQuestions
	default:
		return n
	}
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
