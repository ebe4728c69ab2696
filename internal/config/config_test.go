// File: internal/config/config_test.go
package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claudiorodrigues01/bycrr-ai/internal/config"
)

func TestNewDefault(t *testing.T) {
	cfg := config.NewDefault()

	assert.Equal(t, "phi4", cfg.Agent.LLMModel)
	assert.Equal(t, "http://localhost:11434/api/chat", cfg.Agent.OllamaURL)
	assert.True(t, cfg.Agent.ConfirmSensitiveCommands)
	assert.True(t, cfg.Agent.OllamaAutostart)
	assert.False(t, cfg.Agent.OfflineMode)
	assert.Equal(t, 30*time.Second, cfg.Agent.CommandTimeout)
	assert.Equal(t, 5, cfg.Agent.MaxIterations)
	assert.Equal(t, 90*time.Second, cfg.Agent.MaxRuntime)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Contains(t, cfg.Paths.DataDir, ".bycrr")
}

func TestPaths_LayoutUnderDataDir(t *testing.T) {
	p := config.PathsConfig{DataDir: "/data/.bycrr"}

	assert.Equal(t, filepath.Join("/data/.bycrr", "chat_sessions"), p.Sessions())
	assert.Equal(t, filepath.Join("/data/.bycrr", "knowledge"), p.Knowledge())
	assert.Equal(t, filepath.Join("/data/.bycrr", "memory.json"), p.Memory())
	assert.Equal(t, filepath.Join("/data/.bycrr", "learning_patterns.json"), p.LearningPatterns())
	assert.Equal(t, filepath.Join("/data/.bycrr", "command_history.json"), p.CommandHistory())
	assert.Equal(t, filepath.Join("/data/.bycrr", "command_library.json"), p.CommandLibrary())
}

func TestLoad_NoConfigFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "phi4", cfg.Agent.LLMModel)
	assert.Equal(t, 5, cfg.Agent.MaxIterations)
}

func TestLoad_ReadsYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
agent:
  llm_model: llama3
  offline_mode: true
  max_iterations: 9
paths:
  data_dir: /tmp/bycrr-test
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "llama3", cfg.Agent.LLMModel)
	assert.True(t, cfg.Agent.OfflineMode)
	assert.Equal(t, 9, cfg.Agent.MaxIterations)
	assert.Equal(t, "/tmp/bycrr-test", cfg.Paths.DataDir)
	// Untouched keys keep their defaults.
	assert.Equal(t, "http://localhost:11434/api/chat", cfg.Agent.OllamaURL)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("BYCRR_AGENT_LLM_MODEL", "mistral")
	t.Setenv("BYCRR_AGENT_OFFLINE_MODE", "true")
	t.Setenv("BYCRR_PATHS_DATA_DIR", "/tmp/bycrr-env")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("agent:\n  llm_model: llama3\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "mistral", cfg.Agent.LLMModel)
	assert.True(t, cfg.Agent.OfflineMode)
	assert.Equal(t, "/tmp/bycrr-env", cfg.Paths.DataDir)
}
