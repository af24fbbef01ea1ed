package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the engine configuration.
type Config struct {
	Orchestrator struct {
		MaxConcurrentPortals int           `yaml:"max_concurrent_portals" validate:"min=1"`
		RunTimeout           time.Duration `yaml:"run_timeout" validate:"min=1s"`
		MaxRetries           int           `yaml:"max_retries" validate:"min=0,max=10"`
		RetryBaseDelay       time.Duration `yaml:"retry_base_delay"`
		RetryMaxDelay        time.Duration `yaml:"retry_max_delay"`
		RetryJitter          float64       `yaml:"retry_jitter" validate:"min=0,max=1"`
	} `yaml:"orchestrator"`

	Enrichment struct {
		MaxConcurrent     int           `yaml:"max_concurrent" validate:"min=1"`
		ProviderTimeout   time.Duration `yaml:"provider_timeout" validate:"min=1s"`
		MaxDecisionMakers int           `yaml:"max_decision_makers" validate:"min=1"`
		CacheTTL          time.Duration `yaml:"cache_ttl"`
		HunterAPIKey      string        `yaml:"hunter_api_key"`
	} `yaml:"enrichment"`

	LLM struct {
		APIKey      string        `yaml:"api_key"`
		Model       string        `yaml:"model"`
		MaxTokens   int           `yaml:"max_tokens"`
		Temperature float32       `yaml:"temperature"`
		Timeout     time.Duration `yaml:"timeout"`
	} `yaml:"llm"`

	Scraper struct {
		UserAgent      string        `yaml:"user_agent"`
		RequestTimeout time.Duration `yaml:"request_timeout" validate:"min=1s"`
		HeadlessMode   bool          `yaml:"headless_mode"`
		StealthMode    bool          `yaml:"stealth_mode"`
	} `yaml:"scraper"`

	Firecrawl struct {
		APIKey  string        `yaml:"api_key"`
		APIURL  string        `yaml:"api_url"`
		Timeout time.Duration `yaml:"timeout"`
		Formats []string      `yaml:"formats"`
	} `yaml:"firecrawl"`

	Redis struct {
		URL     string        `yaml:"url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"redis"`

	Adzuna struct {
		AppID  string `yaml:"app_id"`
		AppKey string `yaml:"app_key"`
	} `yaml:"adzuna"`

	Reed struct {
		APIKey string `yaml:"api_key"`
	} `yaml:"reed"`

	Sink struct {
		Dir string `yaml:"dir"`
	} `yaml:"sink"`

	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`

	Portals []PortalConfig `yaml:"portals" validate:"dive"`
}

// PortalConfig is the static per-portal configuration loaded at startup.
type PortalConfig struct {
	ID                 string        `yaml:"id" validate:"required"`
	Enabled            bool          `yaml:"enabled"`
	Priority           int           `yaml:"priority"`
	MaxConcurrent      int           `yaml:"max_concurrent" validate:"min=0"`
	MinDelay           time.Duration `yaml:"min_delay"`
	SupportsJobType    bool          `yaml:"supports_job_type"`
	SupportsTimeFilter bool          `yaml:"supports_time_filter"`
	SupportsLocation   bool          `yaml:"supports_location"`
	Market             string        `yaml:"market"`
}

// expandEnvVars expands ${VAR} and $VAR references in a string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	s = re.ReplaceAllStringFunc(s, func(match string) string {
		if val := os.Getenv(match[2 : len(match)-1]); val != "" {
			return val
		}
		return match
	})

	re2 := regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
	s = re2.ReplaceAllStringFunc(s, func(match string) string {
		if val := os.Getenv(match[1:]); val != "" {
			return val
		}
		return match
	})

	return s
}

// LoadConfig loads configuration from defaults, an optional YAML file and
// environment variables, in that order of precedence.
func LoadConfig(configPath string) (*Config, error) {
	// Load .env if present; missing file is fine.
	_ = godotenv.Load()

	config := Defaults()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		expanded := expandEnvVars(string(data))
		if err := yaml.Unmarshal([]byte(expanded), config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(config)

	if len(config.Portals) == 0 {
		config.Portals = DefaultPortals()
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides picks up secrets that are usually supplied through the
// environment rather than the config file.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HUNTER_API_KEY"); v != "" {
		cfg.Enrichment.HunterAPIKey = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("FIRECRAWL_API_KEY"); v != "" {
		cfg.Firecrawl.APIKey = v
	}
	if v := os.Getenv("ADZUNA_APP_ID"); v != "" {
		cfg.Adzuna.AppID = v
	}
	if v := os.Getenv("ADZUNA_APP_KEY"); v != "" {
		cfg.Adzuna.AppKey = v
	}
	if v := os.Getenv("REED_API_KEY"); v != "" {
		cfg.Reed.APIKey = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Redis.URL = v
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	seen := make(map[string]bool, len(c.Portals))
	for _, p := range c.Portals {
		if seen[p.ID] {
			return fmt.Errorf("invalid configuration: duplicate portal id %q", p.ID)
		}
		seen[p.ID] = true
	}
	return nil
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	config := &Config{}

	config.Orchestrator.MaxConcurrentPortals = 5
	config.Orchestrator.RunTimeout = 10 * time.Minute
	config.Orchestrator.MaxRetries = 2
	config.Orchestrator.RetryBaseDelay = 500 * time.Millisecond
	config.Orchestrator.RetryMaxDelay = 15 * time.Second
	config.Orchestrator.RetryJitter = 0.25

	config.Enrichment.MaxConcurrent = 8
	config.Enrichment.ProviderTimeout = 15 * time.Second
	config.Enrichment.MaxDecisionMakers = 5
	config.Enrichment.CacheTTL = 24 * time.Hour

	config.LLM.Model = "claude-3-5-haiku-latest"
	config.LLM.MaxTokens = 2048
	config.LLM.Temperature = 0.1
	config.LLM.Timeout = 30 * time.Second

	config.Scraper.UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	config.Scraper.RequestTimeout = 30 * time.Second
	config.Scraper.HeadlessMode = true
	config.Scraper.StealthMode = true

	config.Firecrawl.APIURL = "https://api.firecrawl.dev"
	config.Firecrawl.Timeout = 60 * time.Second
	config.Firecrawl.Formats = []string{"html"}

	config.Redis.Timeout = 5 * time.Second

	config.Sink.Dir = "runs"

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	return config
}
