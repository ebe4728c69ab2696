// File: internal/config/config.go
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config holds the entire application configuration.
type Config struct {
	Logger LoggerConfig `mapstructure:"logger" yaml:"logger"`
	Agent  AgentConfig  `mapstructure:"agent" yaml:"agent"`
	Paths  PathsConfig  `mapstructure:"paths" yaml:"paths"`
}

// LoggerConfig controls the zap logger setup.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"` // "console" or "json"
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`

	// File output (rotated by lumberjack). Empty disables the file core.
	LogFile    string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size"` // megabytes
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"` // days
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// AgentConfig holds the decision-and-dispatch engine settings.
type AgentConfig struct {
	// LLMModel is normalized to "<name>:latest" when no tag is given.
	LLMModel string `mapstructure:"llm_model" yaml:"llm_model"`
	// OllamaURL is the chat endpoint of the inference service.
	OllamaURL string `mapstructure:"ollama_url" yaml:"ollama_url"`

	ConfirmSensitiveCommands bool          `mapstructure:"confirm_sensitive_commands" yaml:"confirm_sensitive_commands"`
	CommandTimeout           time.Duration `mapstructure:"command_timeout" yaml:"command_timeout"`
	UsePowershell            bool          `mapstructure:"use_powershell" yaml:"use_powershell"`

	OfflineMode         bool          `mapstructure:"offline_mode" yaml:"offline_mode"`
	OllamaAutostart     bool          `mapstructure:"ollama_autostart" yaml:"ollama_autostart"`
	OllamaCheckInterval time.Duration `mapstructure:"ollama_check_interval" yaml:"ollama_check_interval"`

	MaxIterations int           `mapstructure:"max_iterations" yaml:"max_iterations"`
	MaxRuntime    time.Duration `mapstructure:"max_runtime" yaml:"max_runtime"`
}

// PathsConfig describes the on-disk layout of the agent's data directory.
type PathsConfig struct {
	DataDir string `mapstructure:"data_dir" yaml:"data_dir"`
}

// Sessions returns the chat session documents directory.
func (p PathsConfig) Sessions() string { return filepath.Join(p.DataDir, "chat_sessions") }

// Knowledge returns the local knowledge-base directory.
func (p PathsConfig) Knowledge() string { return filepath.Join(p.DataDir, "knowledge") }

// Memory returns the path of the persisted memory document.
func (p PathsConfig) Memory() string { return filepath.Join(p.DataDir, "memory.json") }

// LearningPatterns returns the path of the learning statistics document.
func (p PathsConfig) LearningPatterns() string {
	return filepath.Join(p.DataDir, "learning_patterns.json")
}

// CommandHistory returns the path of the dispatched-action audit log.
func (p PathsConfig) CommandHistory() string {
	return filepath.Join(p.DataDir, "command_history.json")
}

// CommandLibrary returns the path of the alias/plan library document.
func (p PathsConfig) CommandLibrary() string {
	return filepath.Join(p.DataDir, "command_library.json")
}

// NewDefault returns a Config with all defaults applied. The data directory
// resolves under the user home so the agent works without any config file.
func NewDefault() *Config {
	dataDir := ".bycrr"
	if home, err := homedir.Dir(); err == nil {
		dataDir = filepath.Join(home, ".bycrr")
	}
	return &Config{
		Logger: LoggerConfig{
			Level:       "info",
			Format:      "console",
			ServiceName: "bycrr-ai",
			MaxSize:     10,
			MaxBackups:  3,
			MaxAge:      28,
		},
		Agent: AgentConfig{
			LLMModel:                 "phi4",
			OllamaURL:                "http://localhost:11434/api/chat",
			ConfirmSensitiveCommands: true,
			CommandTimeout:           30 * time.Second,
			OllamaAutostart:          true,
			OllamaCheckInterval:      30 * time.Second,
			MaxIterations:            5,
			MaxRuntime:               90 * time.Second,
		},
		Paths: PathsConfig{DataDir: dataDir},
	}
}

// Load reads the config file (if any) plus BYCRR_* environment overrides and
// returns the merged configuration. A missing config file is not an error.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("BYCRR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := NewDefault()
	setDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file; defaults and env vars apply.
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// setDefaults registers the default values so viper can merge partial files.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("logger.level", cfg.Logger.Level)
	v.SetDefault("logger.format", cfg.Logger.Format)
	v.SetDefault("logger.service_name", cfg.Logger.ServiceName)
	v.SetDefault("logger.max_size", cfg.Logger.MaxSize)
	v.SetDefault("logger.max_backups", cfg.Logger.MaxBackups)
	v.SetDefault("logger.max_age", cfg.Logger.MaxAge)

	v.SetDefault("agent.llm_model", cfg.Agent.LLMModel)
	v.SetDefault("agent.ollama_url", cfg.Agent.OllamaURL)
	v.SetDefault("agent.confirm_sensitive_commands", cfg.Agent.ConfirmSensitiveCommands)
	v.SetDefault("agent.command_timeout", cfg.Agent.CommandTimeout)
	v.SetDefault("agent.use_powershell", cfg.Agent.UsePowershell)
	v.SetDefault("agent.offline_mode", cfg.Agent.OfflineMode)
	v.SetDefault("agent.ollama_autostart", cfg.Agent.OllamaAutostart)
	v.SetDefault("agent.ollama_check_interval", cfg.Agent.OllamaCheckInterval)
	v.SetDefault("agent.max_iterations", cfg.Agent.MaxIterations)
	v.SetDefault("agent.max_runtime", cfg.Agent.MaxRuntime)

	v.SetDefault("paths.data_dir", cfg.Paths.DataDir)
}
