package diagnosis

import (
	"PetAIBackend/internal/config"
	"strings"
)

// SystemPrompt собирает системную инструкцию: роль ассистента, обязательный дисклеймер и язык ответа.
func SystemPrompt(p config.PromptProfile) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(p.System))
	if d := strings.TrimSpace(p.Disclaimer); d != "" {
		b.WriteString(" Always include the disclaimer: '")
		b.WriteString(d)
		b.WriteString("'")
	}
	if l := strings.TrimSpace(p.Language); l != "" {
		b.WriteString(" Always respond in ")
		b.WriteString(l)
		b.WriteString(", regardless of the language of the question.")
	}
	return b.String()
}

// DescriptionText подставляет описание владельца в шаблон профиля.
func DescriptionText(p config.PromptProfile, description string) string {
	tmpl := p.DescriptionTemplate
	if !strings.Contains(tmpl, config.DescriptionPlaceholder) {
		return strings.TrimSpace(tmpl + " " + description)
	}
	return strings.Replace(tmpl, config.DescriptionPlaceholder, description, 1)
}
