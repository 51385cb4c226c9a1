package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
llm:
  base: http://localhost:11434/v1
  model: qwen2.5:14b
http:
  requestInterval: 2s
  maxAttempts: 5
ocr:
  enable: false
  language: por+eng
cache:
  ttl: 1h
listen: ":9090"
verbose: true
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "goleilao.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFileAndApply(t *testing.T) {
	fc, err := LoadFile(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	cfg := Default()
	ApplyFile(&cfg, fc)

	assert.Equal(t, "http://localhost:11434/v1", cfg.LLMBaseURL)
	assert.Equal(t, "qwen2.5:14b", cfg.LLMModel)
	assert.Equal(t, 2*time.Second, cfg.RequestInterval)
	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.False(t, cfg.OCREnabled)
	assert.Equal(t, "por+eng", cfg.OCRLanguage)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.True(t, cfg.Verbose)
}

func TestApplyFileKeepsExplicitFlags(t *testing.T) {
	fc, err := LoadFile(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	cfg := Default()
	cfg.LLMModel = "from-flag"
	cfg.RequestInterval = 500 * time.Millisecond
	ApplyFile(&cfg, fc)

	assert.Equal(t, "from-flag", cfg.LLMModel)
	assert.Equal(t, 500*time.Millisecond, cfg.RequestInterval)
}

func TestLoadFileRejectsBadYAML(t *testing.T) {
	_, err := LoadFile(writeConfig(t, "llm: [unclosed"))
	assert.Error(t, err)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("LLM_MODEL", "env-model")
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("GOLEILAO_OCR", "false")

	cfg := Default()
	ApplyEnv(&cfg)

	assert.Equal(t, "env-model", cfg.LLMModel)
	assert.Equal(t, "sk-test", cfg.LLMAPIKey)
	assert.False(t, cfg.OCREnabled)
}

func TestApplyEnvDoesNotOverrideExplicit(t *testing.T) {
	t.Setenv("LLM_MODEL", "env-model")

	cfg := Default()
	cfg.LLMModel = "explicit"
	ApplyEnv(&cfg)

	assert.Equal(t, "explicit", cfg.LLMModel)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.NoError(t, Validate(cfg))

	bad := Default()
	bad.MaxAttempts = 0
	assert.Error(t, Validate(bad))

	negative := Default()
	negative.CacheTTL = -time.Second
	assert.Error(t, Validate(negative))

	orphanModel := Default()
	orphanModel.LLMModel = "m"
	assert.Error(t, Validate(orphanModel))

	localModel := Default()
	localModel.LLMModel = "m"
	localModel.LLMBaseURL = "http://localhost:11434/v1"
	assert.NoError(t, Validate(localModel))
}
