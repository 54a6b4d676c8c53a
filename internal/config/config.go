package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	KB        KBConfig        `yaml:"kb" mapstructure:"kb"`
	Agent     AgentConfig     `yaml:"agent" mapstructure:"agent"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key         string  `yaml:"key" mapstructure:"key"`
	HaikuModel  string  `yaml:"haiku_model" mapstructure:"haiku_model"`
	SonnetModel string  `yaml:"sonnet_model" mapstructure:"sonnet_model"`
	MaxTokens   int64   `yaml:"max_tokens" mapstructure:"max_tokens"`
	RatePerSec  float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
}

// ServerConfig configures the chat server.
type ServerConfig struct {
	Port      int    `yaml:"port" mapstructure:"port"`
	StaticDir string `yaml:"static_dir" mapstructure:"static_dir"`
}

// KBConfig configures the knowledge base.
type KBConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// AgentConfig configures turn-pipeline behavior.
type AgentConfig struct {
	// HistoryWindow is how many recent messages the capability decision
	// step sees as context.
	HistoryWindow int `yaml:"history_window" mapstructure:"history_window"`

	// DynamicCapabilities toggles the per-turn decision step entirely.
	DynamicCapabilities bool `yaml:"dynamic_capabilities" mapstructure:"dynamic_capabilities"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("MORTGAGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("anthropic.haiku_model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.sonnet_model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_tokens", 2048)
	v.SetDefault("anthropic.rate_per_sec", 2.0)
	v.SetDefault("server.port", 8001)
	v.SetDefault("server.static_dir", "frontend")
	v.SetDefault("kb.path", "kb.db")
	v.SetDefault("agent.history_window", 5)
	v.SetDefault("agent.dynamic_capabilities", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
