package llm

import "testing"

func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"GEMINI_API_KEY", "GEMINI_MODEL", "GEMINI_BASE_URL",
		"OPENAI_API_KEY", "OPENAI_MODEL", "OPENAI_BASE_URL",
		"OPENROUTER_API_KEY", "OPENROUTER_MODEL", "OPENROUTER_BASE_URL",
		"OPENROUTER_SITE_URL", "OPENROUTER_TITLE",
		"LLM_PROVIDER",
	} {
		t.Setenv(k, "")
	}
}

func TestResolveAPIConfigDefaultsToGemini(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("GEMINI_API_KEY", "g-key")

	cfg, err := resolveAPIConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Kind != providerGemini || cfg.APIKey != "g-key" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Model != defaultGeminiModel {
		t.Fatalf("model = %q", cfg.Model)
	}
	if cfg.BaseURL != geminiBaseURL {
		t.Fatalf("base url = %q", cfg.BaseURL)
	}
}

func TestResolveAPIConfigProviderOverride(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("OPENAI_API_KEY", "o-key")
	t.Setenv("OPENAI_MODEL", "gpt-x")
	t.Setenv("LLM_PROVIDER", "openai")

	cfg, err := resolveAPIConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Kind != providerOpenAI || cfg.APIKey != "o-key" || cfg.Model != "gpt-x" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestResolveAPIConfigOpenRouterHeaders(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("OPENROUTER_API_KEY", "r-key")
	t.Setenv("OPENROUTER_MODEL", "some/model")
	t.Setenv("OPENROUTER_SITE_URL", "https://colosseum.example")
	t.Setenv("OPENROUTER_TITLE", "Poker AI Colosseum")

	cfg, err := resolveAPIConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Kind != providerOpenRouter {
		t.Fatalf("kind = %v", cfg.Kind)
	}
	if cfg.ExtraHeaders["HTTP-Referer"] != "https://colosseum.example" {
		t.Fatalf("headers = %+v", cfg.ExtraHeaders)
	}
	if cfg.ExtraHeaders["X-Title"] != "Poker AI Colosseum" {
		t.Fatalf("headers = %+v", cfg.ExtraHeaders)
	}
}

func TestResolveAPIConfigErrors(t *testing.T) {
	clearProviderEnv(t)
	if _, err := resolveAPIConfig(); err == nil {
		t.Fatal("want error with no keys set")
	}

	// Key without a model (OpenAI has no default model).
	t.Setenv("OPENAI_API_KEY", "o-key")
	if _, err := resolveAPIConfig(); err == nil {
		t.Fatal("want error with no model set")
	}
}

func TestHaveCredentials(t *testing.T) {
	clearProviderEnv(t)
	if HaveCredentials() {
		t.Fatal("no keys set")
	}
	t.Setenv("OPENROUTER_API_KEY", "r-key")
	if !HaveCredentials() {
		t.Fatal("key set but not detected")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("hello", 10); got != "hello" {
		t.Fatalf("got %q", got)
	}
	if got := truncate("hello world", 8); got != "hello..." {
		t.Fatalf("got %q", got)
	}
	if got := truncate("abc", 2); got != "ab" {
		t.Fatalf("got %q", got)
	}
}
