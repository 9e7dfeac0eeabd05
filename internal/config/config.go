package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	defaultListenAddr = ":8080"
	defaultDBPath     = "orchestra.db"
	defaultConfigPath = "config/orchestra.yml"
	defaultClientMode = "claude-code"
	defaultRunMode    = "auto"

	envClientMode = "CLIENT_MODE"
	envAPIKey     = "ANTHROPIC_API_KEY"
	envModel      = "ANTHROPIC_MODEL"
	envRunMode    = "ORCHESTRATOR_MODE"
	envListenAddr = "ORCHESTRA_LISTEN_ADDR"
	envDBPath     = "ORCHESTRA_DB_PATH"
	envConfigPath = "ORCHESTRA_CONFIG"
	envLogLevel   = "ORCHESTRA_LOG_LEVEL"
)

// Settings holds process-level configuration loaded from environment
// variables. Resolved values are passed into the engine and resolver
// explicitly; nothing below the cmd layer reads the environment.
type Settings struct {
	ClientMode string
	APIKey     string
	Model      string
	RunMode    string
	ListenAddr string
	DBPath     string
	ConfigPath string
	LogLevel   slog.Level
}

// LoadSettings reads settings from environment variables with sensible defaults.
func LoadSettings() Settings {
	s := Settings{
		ClientMode: defaultClientMode,
		RunMode:    defaultRunMode,
		ListenAddr: defaultListenAddr,
		DBPath:     defaultDBPath,
		ConfigPath: defaultConfigPath,
		LogLevel:   slog.LevelInfo,
	}

	if v := os.Getenv(envClientMode); v != "" {
		s.ClientMode = v
	}
	s.APIKey = os.Getenv(envAPIKey)
	s.Model = os.Getenv(envModel)
	if v := os.Getenv(envRunMode); v != "" {
		s.RunMode = v
	}
	if v := os.Getenv(envListenAddr); v != "" {
		s.ListenAddr = v
	}
	if v := os.Getenv(envDBPath); v != "" {
		s.DBPath = v
	}
	if v := os.Getenv(envConfigPath); v != "" {
		s.ConfigPath = v
	}
	if v := os.Getenv(envLogLevel); v != "" {
		s.LogLevel = parseLogLevel(v)
	}

	return s
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a structured JSON logger writing to w at the configured level.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

// File is the orchestra.yml configuration file.
type File struct {
	Orchestra OrchestraConfig `yaml:"orchestra"`
	Client    ClientConfig    `yaml:"client"`
	Agents    AgentsConfig    `yaml:"agents"`
	Outputs   OutputsConfig   `yaml:"outputs"`
	Features  FeaturesConfig  `yaml:"features"`
}

// OrchestraConfig names the deployment.
type OrchestraConfig struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	DefaultMode string `yaml:"default_mode"`
}

// ClientConfig sets the default client mode when CLIENT_MODE is unset.
type ClientConfig struct {
	DefaultMode string `yaml:"default_mode"`
}

// AgentsConfig holds per-agent settings for the four agent roles.
type AgentsConfig struct {
	Monitor    AgentConfig `yaml:"monitor"`
	Analyzer   AgentConfig `yaml:"analyzer"`
	Researcher AgentConfig `yaml:"researcher"`
	Reporter   AgentConfig `yaml:"reporter"`
}

// AgentConfig configures one agent role.
type AgentConfig struct {
	Enabled        bool   `yaml:"enabled"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	// ClientMode overrides the global client mode for this agent's tasks.
	ClientMode string `yaml:"client_mode"`
	// SystemPrompt gives the agent its identity/role.
	SystemPrompt string `yaml:"system_prompt"`
}

// OutputsConfig controls where result and summary files land.
type OutputsConfig struct {
	Directory     string   `yaml:"directory"`
	RetentionDays int      `yaml:"retention_days"`
	Formats       []string `yaml:"formats"`
}

// FeaturesConfig toggles optional behaviors.
type FeaturesConfig struct {
	ParallelExecution bool `yaml:"parallel_execution"`
}

// Default returns the built-in configuration used when no file is present.
func Default() File {
	return File{
		Orchestra: OrchestraConfig{
			Name:        "Agent Orchestra",
			Version:     "1.0.0",
			DefaultMode: "auto",
		},
		Client: ClientConfig{DefaultMode: defaultClientMode},
		Agents: AgentsConfig{
			Monitor:    AgentConfig{Enabled: true, TimeoutSeconds: 120},
			Analyzer:   AgentConfig{Enabled: true, TimeoutSeconds: 180},
			Researcher: AgentConfig{Enabled: true, TimeoutSeconds: 300},
			Reporter:   AgentConfig{Enabled: true, TimeoutSeconds: 120},
		},
		Outputs: OutputsConfig{
			Directory:     "outputs",
			RetentionDays: 30,
			Formats:       []string{"json", "txt"},
		},
	}
}

// LoadFile parses the YAML configuration at path.
func LoadFile(path string) (File, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read config file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(content, &f); err != nil {
		return File{}, fmt.Errorf("parse config file: %w", err)
	}
	return f, nil
}
