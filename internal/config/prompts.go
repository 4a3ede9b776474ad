package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DescriptionPlaceholder заменяется в DescriptionTemplate текстом владельца.
const DescriptionPlaceholder = "{description}"

//go:embed prompts.yaml
var builtinPrompts []byte

// PromptProfile описывает продуктовые настройки промпта: роль ассистента, обязательный дисклеймер и язык ответа.
type PromptProfile struct {
	System              string `yaml:"system"`
	Disclaimer          string `yaml:"disclaimer"`
	Language            string `yaml:"language"` // Пусто: язык не навязываем
	DescriptionTemplate string `yaml:"description_template"`
}

// PromptProfiles профили по имени.
type PromptProfiles map[string]PromptProfile

// DefaultPromptProfiles возвращает встроенные профили (en, el).
func DefaultPromptProfiles() (PromptProfiles, error) {
	return parsePromptProfiles(builtinPrompts)
}

// LoadPromptProfiles читает профили из YAML-файла поверх встроенных.
// Пустой path: только встроенные профили.
func LoadPromptProfiles(path string) (PromptProfiles, error) {
	profiles, err := DefaultPromptProfiles()
	if err != nil {
		return nil, fmt.Errorf("builtin prompts: %w", err)
	}
	if strings.TrimSpace(path) == "" {
		return profiles, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompts file: %w", err)
	}
	custom, err := parsePromptProfiles(data)
	if err != nil {
		return nil, fmt.Errorf("prompts file %s: %w", path, err)
	}
	for name, p := range custom {
		profiles[name] = p
	}
	return profiles, nil
}

func parsePromptProfiles(data []byte) (PromptProfiles, error) {
	profiles := make(PromptProfiles)
	if err := yaml.Unmarshal(data, &profiles); err != nil {
		return nil, err
	}
	for name, p := range profiles {
		if strings.TrimSpace(p.System) == "" {
			return nil, fmt.Errorf("profile %q: empty system prompt", name)
		}
		if strings.TrimSpace(p.DescriptionTemplate) == "" {
			p.DescriptionTemplate = DescriptionPlaceholder
			profiles[name] = p
		}
	}
	return profiles, nil
}
