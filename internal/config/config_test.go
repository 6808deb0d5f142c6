package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if len(cfg.LLMProviders) == 0 {
		t.Error("expected default LLM providers")
	}
	if cfg.LLMProviders["openai"].APIKey != "${OPENAI_API_KEY}" {
		t.Error("expected openai API key placeholder")
	}
	if cfg.Classifier.Provider != "" {
		t.Error("expected rule-based classification by default")
	}
	if cfg.Defaults.MaxWorkers <= 0 {
		t.Error("expected positive default worker count")
	}
}

func TestResolveEnvVars(t *testing.T) {
	t.Run("resolves environment variable", func(t *testing.T) {
		os.Setenv("TEST_API_KEY", "secret123")
		defer os.Unsetenv("TEST_API_KEY")

		result := ResolveEnvVars("${TEST_API_KEY}")
		if result != "secret123" {
			t.Errorf("expected secret123, got %s", result)
		}
	})

	t.Run("returns empty for missing env var", func(t *testing.T) {
		result := ResolveEnvVars("${DEFINITELY_NOT_SET_12345}")
		if result != "" {
			t.Errorf("expected empty string, got %s", result)
		}
	})

	t.Run("leaves literal values unchanged", func(t *testing.T) {
		result := ResolveEnvVars("literal-value")
		if result != "literal-value" {
			t.Errorf("expected literal-value, got %s", result)
		}
	})
}

func TestConfig_ResolveAPIKey(t *testing.T) {
	os.Setenv("TEST_OPENAI_KEY", "oa-key-123")
	defer os.Unsetenv("TEST_OPENAI_KEY")

	cfg := &Config{
		LLMProviders: map[string]LLMProviderCfg{
			"openai":  {APIKey: "${TEST_OPENAI_KEY}"},
			"literal": {APIKey: "direct-key"},
		},
	}

	t.Run("resolves env var reference", func(t *testing.T) {
		if got := cfg.ResolveAPIKey("openai"); got != "oa-key-123" {
			t.Errorf("expected oa-key-123, got %s", got)
		}
	})

	t.Run("returns literal value", func(t *testing.T) {
		if got := cfg.ResolveAPIKey("literal"); got != "direct-key" {
			t.Errorf("expected direct-key, got %s", got)
		}
	})

	t.Run("unknown provider yields empty", func(t *testing.T) {
		if got := cfg.ResolveAPIKey("absent"); got != "" {
			t.Errorf("expected empty, got %s", got)
		}
	})
}

func TestNewManager(t *testing.T) {
	t.Run("loads from config file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configFile := filepath.Join(tmpDir, "config.yaml")

		configContent := `
server:
  host: 0.0.0.0
  port: "9090"
classifier:
  provider: openai
  extra_keywords:
    filling_log:
      - abfüllung
defaults:
  max_workers: 8
`
		if err := os.WriteFile(configFile, []byte(configContent), 0o644); err != nil {
			t.Fatal(err)
		}

		cm, err := NewManager(configFile)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		cfg := cm.Get()
		if cfg.Server.Port != "9090" {
			t.Errorf("expected port 9090, got %s", cfg.Server.Port)
		}
		if cfg.Classifier.Provider != "openai" {
			t.Errorf("expected openai classifier, got %q", cfg.Classifier.Provider)
		}
		if cfg.Defaults.MaxWorkers != 8 {
			t.Errorf("expected 8 workers, got %d", cfg.Defaults.MaxWorkers)
		}
		if len(cfg.Classifier.ExtraKeywords["filling_log"]) != 1 {
			t.Errorf("expected merged extra keywords, got %v", cfg.Classifier.ExtraKeywords)
		}
	})

	t.Run("missing file falls back to defaults", func(t *testing.T) {
		cm, err := NewManager("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cm.Get().Server.Port == "" {
			t.Error("expected default port")
		}
	})
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Error("expected non-empty config file")
	}
}
