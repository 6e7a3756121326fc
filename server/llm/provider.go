package llm

import (
	"errors"
	"os"
	"strings"
)

type providerKind int

const (
	providerGemini providerKind = iota
	providerOpenAI
	providerOpenRouter
)

const (
	geminiBaseURL     = "https://generativelanguage.googleapis.com/v1beta/openai"
	openAIBaseURL     = "https://api.openai.com/v1"
	openRouterBaseURL = "https://openrouter.ai/api/v1"

	defaultGeminiModel = "gemini-2.5-flash"
)

type apiConfig struct {
	Kind         providerKind
	APIKey       string
	Model        string
	BaseURL      string
	ExtraHeaders map[string]string
}

// resolveAPIConfig picks the generation backend from the environment.
// Gemini is the default; OpenAI and OpenRouter keys are honored when no
// Gemini key is present or when LLM_PROVIDER forces one.
func resolveAPIConfig() (apiConfig, error) {
	cfg := apiConfig{ExtraHeaders: map[string]string{}}

	geminiKey := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	openAIKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	openRouterKey := strings.TrimSpace(os.Getenv("OPENROUTER_API_KEY"))

	switch {
	case geminiKey != "":
		cfg.Kind = providerGemini
	case openRouterKey != "":
		cfg.Kind = providerOpenRouter
	default:
		cfg.Kind = providerOpenAI
	}
	switch strings.ToLower(strings.TrimSpace(os.Getenv("LLM_PROVIDER"))) {
	case "gemini":
		cfg.Kind = providerGemini
	case "openai":
		cfg.Kind = providerOpenAI
	case "openrouter":
		cfg.Kind = providerOpenRouter
	}

	switch cfg.Kind {
	case providerGemini:
		cfg.APIKey = geminiKey
		cfg.Model = firstNonEmpty(os.Getenv("GEMINI_MODEL"), defaultGeminiModel)
		cfg.BaseURL = firstNonEmpty(os.Getenv("GEMINI_BASE_URL"), geminiBaseURL)
	case providerOpenRouter:
		cfg.APIKey = openRouterKey
		cfg.Model = firstNonEmpty(os.Getenv("OPENROUTER_MODEL"), os.Getenv("OPENAI_MODEL"))
		cfg.BaseURL = firstNonEmpty(os.Getenv("OPENROUTER_BASE_URL"), openRouterBaseURL)
		if v := strings.TrimSpace(os.Getenv("OPENROUTER_SITE_URL")); v != "" {
			cfg.ExtraHeaders["HTTP-Referer"] = v
			cfg.ExtraHeaders["Referer"] = v
		}
		if v := strings.TrimSpace(os.Getenv("OPENROUTER_TITLE")); v != "" {
			cfg.ExtraHeaders["X-Title"] = v
		}
	default:
		cfg.APIKey = openAIKey
		cfg.Model = strings.TrimSpace(os.Getenv("OPENAI_MODEL"))
		cfg.BaseURL = firstNonEmpty(os.Getenv("OPENAI_BASE_URL"), openAIBaseURL)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if cfg.APIKey == "" {
		return apiConfig{}, errors.New("API key missing: set GEMINI_API_KEY, OPENAI_API_KEY or OPENROUTER_API_KEY")
	}
	if cfg.Model == "" {
		return apiConfig{}, errors.New("model missing: set GEMINI_MODEL/OPENAI_MODEL/OPENROUTER_MODEL")
	}
	return cfg, nil
}

// HaveCredentials reports whether any backend key is configured.
func HaveCredentials() bool {
	for _, k := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "OPENROUTER_API_KEY"} {
		if strings.TrimSpace(os.Getenv(k)) != "" {
			return true
		}
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
