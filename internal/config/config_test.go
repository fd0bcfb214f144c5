package config

import "testing"

func TestProviderDefaultsToMock(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("EMBEDDING_PROVIDER", "")

	if got := LLMProvider(); got != "mock" {
		t.Errorf("LLMProvider() = %q, want mock", got)
	}
	if got := EmbeddingProvider(); got != "mock" {
		t.Errorf("EmbeddingProvider() = %q, want mock", got)
	}
}

func TestProviderKeysShareOpenAICredential(t *testing.T) {
	// Every non-mock provider reads the one OPENAI_API_KEY variable;
	// no component may require a credential under another name.
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("EMBEDDING_PROVIDER", "openai")

	if got := LLMAPIKey(); got != "sk-test" {
		t.Errorf("LLMAPIKey() = %q, want sk-test", got)
	}
	if got := EmbeddingAPIKey(); got != "sk-test" {
		t.Errorf("EmbeddingAPIKey() = %q, want sk-test", got)
	}
}

func TestMockProvidersNeedNoKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("LLM_PROVIDER", "mock")
	t.Setenv("EMBEDDING_PROVIDER", "mock")

	if got := LLMAPIKey(); got != "" {
		t.Errorf("LLMAPIKey() = %q, want empty for mock", got)
	}
	if got := EmbeddingAPIKey(); got != "" {
		t.Errorf("EmbeddingAPIKey() = %q, want empty for mock", got)
	}
}
