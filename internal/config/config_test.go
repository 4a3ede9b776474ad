package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cleanEnv изолирует тест от окружения машины.
func cleanEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"DEBUG_MODE", "AI_PROVIDER", "BIND_ADDR",
		"OPENAI_API_KEY", "OPENAI_MODEL", "OPENAI_BASE_URL",
		"GEMINI_API_KEY", "GEMINI_MODEL", "GEMINI_BASE_URL",
		"LIVENESS_MESSAGE", "MAX_UPLOAD_BYTES", "CORS_ALLOWED_ORIGINS",
		"IMAGE_MAX_WIDTH", "IMAGE_MAX_BYTES", "IMAGE_MAX_PIXELS", "PROMPTS_FILE", "PROMPT_PROFILE",
	} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestNewConfig_Defaults(t *testing.T) {
	cleanEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := NewConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "gpt-5", cfg.OpenAI.Model)
	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	assert.Equal(t, "0.0.0.0:5000", cfg.BindAddr)
	assert.Equal(t, "Pet AI Backend is running!", cfg.Server.LivenessMessage)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, 40_000_000, cfg.Image.MaxPixels)
	assert.Contains(t, cfg.Prompt.System, "helpful assistant for pet owners")
	assert.Contains(t, cfg.Prompt.Disclaimer, "does not replace a professional veterinary diagnosis")
	assert.Empty(t, cfg.Prompt.Language)
}

func TestNewConfig_MissingKeyIsFatal(t *testing.T) {
	t.Run("openai", func(t *testing.T) {
		cleanEnv(t)
		_, err := NewConfig(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "OPENAI_API_KEY")
	})

	t.Run("gemini", func(t *testing.T) {
		cleanEnv(t)
		t.Setenv("AI_PROVIDER", "gemini")
		t.Setenv("OPENAI_API_KEY", "sk-test")
		_, err := NewConfig(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "GEMINI_API_KEY")
	})
}

func TestNewConfig_StubNeedsNoKey(t *testing.T) {
	cleanEnv(t)
	cfg, err := NewConfig([]string{"-provider", "stub"})
	require.NoError(t, err)
	assert.Equal(t, ProviderStub, cfg.Provider)
}

func TestNewConfig_UnknownProvider(t *testing.T) {
	cleanEnv(t)
	t.Setenv("AI_PROVIDER", "claude")
	_, err := NewConfig(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown AI provider")
}

func TestNewConfig_EnvAndFlags(t *testing.T) {
	cleanEnv(t)
	t.Setenv("AI_PROVIDER", "Gemini")
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("GEMINI_MODEL", "gemini-env")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example;https://b.example")
	t.Setenv("MAX_UPLOAD_BYTES", "2048")
	t.Setenv("IMAGE_MAX_PIXELS", "1000000")

	cfg, err := NewConfig([]string{"-gemini-model", "gemini-flag", "-bind-addr", "127.0.0.1:9000", "-prompt-profile", "el"})
	require.NoError(t, err)

	assert.Equal(t, ProviderGemini, cfg.Provider)
	assert.Equal(t, "g-key", cfg.Gemini.APIKey)
	assert.Equal(t, "gemini-flag", cfg.Gemini.Model, "флаг перекрывает окружение")
	assert.Equal(t, "127.0.0.1:9000", cfg.BindAddr)
	assert.Equal(t, int64(2048), cfg.Server.MaxUploadBytes)
	assert.Equal(t, 1_000_000, cfg.Image.MaxPixels)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, "Greek", cfg.Prompt.Language)
}

func TestNewConfig_UnknownProfile(t *testing.T) {
	cleanEnv(t)
	_, err := NewConfig([]string{"-provider", "stub", "-prompt-profile", "fr"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown prompt profile "fr"`)
}

func TestLoadPromptProfiles_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	data := `
vet-short:
  system: You are a terse veterinary assistant.
  disclaimer: Not a diagnosis.
  language: English
en:
  system: Overridden system prompt.
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	profiles, err := LoadPromptProfiles(path)
	require.NoError(t, err)

	require.Contains(t, profiles, "vet-short")
	assert.Equal(t, "You are a terse veterinary assistant.", profiles["vet-short"].System)
	assert.Equal(t, DescriptionPlaceholder, profiles["vet-short"].DescriptionTemplate)
	assert.Equal(t, "Overridden system prompt.", profiles["en"].System)
	assert.Contains(t, profiles, "el", "встроенные профили сохраняются")
}

func TestLoadPromptProfiles_Invalid(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadPromptProfiles(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("broken:\n  disclaimer: only\n"), 0o644))
	_, err = LoadPromptProfiles(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty system prompt")
}

func TestParseListFlag(t *testing.T) {
	def := []string{"*"}
	assert.Equal(t, def, parseListFlag("", def))
	assert.Equal(t, def, parseListFlag(" ; ;", def))
	assert.Equal(t, []string{"a", "b"}, parseListFlag(" a ;b;", def))
}
