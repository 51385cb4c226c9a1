// Package config holds the runtime settings shared by the CLI and the API
// daemon. Precedence is flags over environment over config file over
// defaults; the loaders here implement the file and environment layers.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// Config is the assembled runtime configuration.
type Config struct {
	// LLM backend for the semantic strategy. Empty model disables it.
	LLMBaseURL string
	LLMModel   string
	LLMAPIKey  string

	// Outbound HTTP
	UserAgent         string
	RequestInterval   time.Duration
	MaxAttempts       int
	PerRequestTimeout time.Duration

	// OCR
	OCREnabled  bool
	OCRBinary   string
	OCRLanguage string

	// Result cache
	CacheTTL time.Duration

	// Daemon
	ListenAddr string

	Verbose bool
}

// Default returns the configuration the binaries start from before the file,
// environment and flag layers apply.
func Default() Config {
	return Config{
		UserAgent:         "goleilao/1.0 (+https://github.com/hyperifyio/goleilao)",
		RequestInterval:   time.Second,
		MaxAttempts:       3,
		PerRequestTimeout: 20 * time.Second,
		OCREnabled:        true,
		OCRLanguage:       "por",
		CacheTTL:          15 * time.Minute,
		ListenAddr:        ":8080",
	}
}

// FileConfig is the YAML schema. Nested sections map naturally to flags and
// environment variables. Durations are strings in time.ParseDuration form
// ("2s", "15m").
type FileConfig struct {
	LLM struct {
		BaseURL string `yaml:"base"`
		Model   string `yaml:"model"`
		APIKey  string `yaml:"key"`
	} `yaml:"llm"`

	HTTP struct {
		UserAgent       string `yaml:"userAgent"`
		RequestInterval string `yaml:"requestInterval"`
		MaxAttempts     int    `yaml:"maxAttempts"`
		Timeout         string `yaml:"timeout"`
	} `yaml:"http"`

	OCR struct {
		Enable   *bool  `yaml:"enable"`
		Binary   string `yaml:"binary"`
		Language string `yaml:"language"`
	} `yaml:"ocr"`

	Cache struct {
		TTL string `yaml:"ttl"`
	} `yaml:"cache"`

	Listen  string `yaml:"listen"`
	Verbose bool   `yaml:"verbose"`
}

// LoadFile reads a YAML config file.
func LoadFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return fc, fmt.Errorf("parse config %s: %w", path, err)
	}
	return fc, nil
}

// ApplyFile overlays file values into cfg for fields still at their default.
// Flags are parsed before this runs, so explicit flags win.
func ApplyFile(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	def := Default()

	if cfg.LLMBaseURL == "" && fc.LLM.BaseURL != "" {
		cfg.LLMBaseURL = fc.LLM.BaseURL
	}
	if cfg.LLMModel == "" && fc.LLM.Model != "" {
		cfg.LLMModel = fc.LLM.Model
	}
	if cfg.LLMAPIKey == "" && fc.LLM.APIKey != "" {
		cfg.LLMAPIKey = fc.LLM.APIKey
	}

	if cfg.UserAgent == def.UserAgent && fc.HTTP.UserAgent != "" {
		cfg.UserAgent = fc.HTTP.UserAgent
	}
	if d, ok := parseDuration(fc.HTTP.RequestInterval); ok && cfg.RequestInterval == def.RequestInterval {
		cfg.RequestInterval = d
	}
	if cfg.MaxAttempts == def.MaxAttempts && fc.HTTP.MaxAttempts > 0 {
		cfg.MaxAttempts = fc.HTTP.MaxAttempts
	}
	if d, ok := parseDuration(fc.HTTP.Timeout); ok && cfg.PerRequestTimeout == def.PerRequestTimeout {
		cfg.PerRequestTimeout = d
	}

	if fc.OCR.Enable != nil {
		cfg.OCREnabled = *fc.OCR.Enable
	}
	if cfg.OCRBinary == "" && fc.OCR.Binary != "" {
		cfg.OCRBinary = fc.OCR.Binary
	}
	if cfg.OCRLanguage == def.OCRLanguage && fc.OCR.Language != "" {
		cfg.OCRLanguage = fc.OCR.Language
	}

	if d, ok := parseDuration(fc.Cache.TTL); ok && cfg.CacheTTL == def.CacheTTL {
		cfg.CacheTTL = d
	}
	if cfg.ListenAddr == def.ListenAddr && fc.Listen != "" {
		cfg.ListenAddr = fc.Listen
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
}

func parseDuration(s string) (time.Duration, bool) {
	if s == "" {
		return 0, false
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, false
	}
	return d, true
}

// ApplyEnv overlays environment variables into unset fields. Called after
// flag parsing; typically godotenv has already populated the environment.
func ApplyEnv(cfg *Config) {
	if cfg == nil {
		return
	}
	if cfg.LLMBaseURL == "" {
		cfg.LLMBaseURL = os.Getenv("LLM_BASE_URL")
	}
	if cfg.LLMModel == "" {
		cfg.LLMModel = os.Getenv("LLM_MODEL")
	}
	if cfg.LLMAPIKey == "" {
		cfg.LLMAPIKey = os.Getenv("LLM_API_KEY")
		if cfg.LLMAPIKey == "" {
			cfg.LLMAPIKey = os.Getenv("OPENAI_API_KEY")
		}
	}
	if v := os.Getenv("GOLEILAO_OCR_BINARY"); v != "" && cfg.OCRBinary == "" {
		cfg.OCRBinary = v
	}
	if v := os.Getenv("GOLEILAO_OCR"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.OCREnabled = b
		}
	}
	if v := os.Getenv("GOLEILAO_LISTEN"); v != "" && cfg.ListenAddr == Default().ListenAddr {
		cfg.ListenAddr = v
	}
}

// Validate checks for settings the pipeline cannot run with.
func Validate(cfg Config) error {
	if cfg.MaxAttempts < 1 {
		return errors.New("config: http.maxAttempts must be at least 1")
	}
	if cfg.RequestInterval < 0 || cfg.PerRequestTimeout < 0 || cfg.CacheTTL < 0 {
		return errors.New("config: negative durations are not allowed")
	}
	if cfg.LLMModel != "" && cfg.LLMBaseURL == "" && cfg.LLMAPIKey == "" {
		return errors.New("config: llm.model set but neither llm.base nor llm.key given")
	}
	return nil
}
