package config

// Config holds batchlens configuration.
// Loaded from ./config.yaml or ~/.batchlens/config.yaml.
type Config struct {
	LLMProviders map[string]LLMProviderCfg `mapstructure:"llm_providers" yaml:"llm_providers"`
	Classifier   ClassifierCfg             `mapstructure:"classifier" yaml:"classifier"`
	Layout       LayoutCfg                 `mapstructure:"layout" yaml:"layout"`
	Server       ServerCfg                 `mapstructure:"server" yaml:"server"`
	Defaults     DefaultsCfg               `mapstructure:"defaults" yaml:"defaults"`
}

// LLMProviderCfg configures an LLM provider used by the AI classification
// strategy.
type LLMProviderCfg struct {
	Type       string  `mapstructure:"type" yaml:"type"`   // "openai"
	Model      string  `mapstructure:"model" yaml:"model"` // Model name
	APIKey     string  `mapstructure:"api_key" yaml:"api_key"` // Supports ${ENV_VAR} syntax
	RateLimit  float64 `mapstructure:"rate_limit" yaml:"rate_limit"` // Requests per second
	MaxRetries int     `mapstructure:"max_retries" yaml:"max_retries"`
	Enabled    bool    `mapstructure:"enabled" yaml:"enabled"`
}

// ClassifierCfg selects the page classification strategy.
// An empty Provider means rule-based classification only.
type ClassifierCfg struct {
	Provider string `mapstructure:"provider" yaml:"provider"` // LLM provider name, or ""
	Model    string `mapstructure:"model" yaml:"model"`       // Override of the provider's model
	// ExtraKeywords adds per-customer keywords to the rule classifier,
	// keyed by page type.
	ExtraKeywords map[string][]string `mapstructure:"extra_keywords" yaml:"extra_keywords"`
}

// LayoutCfg carries per-customer pattern additions for the layout analyzer.
type LayoutCfg struct {
	// SectionPatterns maps a section type to extra regex sources.
	SectionPatterns map[string][]string `mapstructure:"section_patterns" yaml:"section_patterns"`
	// FieldPatterns maps a field key to one extra regex source (must contain
	// a capturing group).
	FieldPatterns map[string]string `mapstructure:"field_patterns" yaml:"field_patterns"`
}

// ServerCfg holds HTTP server settings.
type ServerCfg struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port string `mapstructure:"port" yaml:"port"`
}

// DefaultsCfg holds engine-wide defaults.
type DefaultsCfg struct {
	// MaxWorkers bounds concurrent per-page processing in a pipeline run.
	MaxWorkers int `mapstructure:"max_workers" yaml:"max_workers"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		LLMProviders: map[string]LLMProviderCfg{
			"openai": {
				Type:       "openai",
				Model:      "gpt-4o-mini",
				APIKey:     "${OPENAI_API_KEY}",
				RateLimit:  2.0,
				MaxRetries: 2,
				Enabled:    false,
			},
		},
		Classifier: ClassifierCfg{
			Provider: "",
		},
		Server: ServerCfg{
			Host: "127.0.0.1",
			Port: "8080",
		},
		Defaults: DefaultsCfg{
			MaxWorkers: 4,
		},
	}
}

// ResolveAPIKey returns the resolved API key for a provider, expanding
// ${ENV_VAR} references.
func (c *Config) ResolveAPIKey(provider string) string {
	p, ok := c.LLMProviders[provider]
	if !ok {
		return ""
	}
	return ResolveEnvVars(p.APIKey)
}
