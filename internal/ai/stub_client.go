package ai

import "context"

// DefaultStubAnswer ответ StubClient по умолчанию.
const DefaultStubAnswer = "Stub diagnosis: the AI provider is disabled. Please consult with a veterinarian."

// StubClient заглушка, которая не делает реальных запросов
type StubClient struct {
	answer string
}

func NewStubClient(answer string) *StubClient {
	if answer == "" {
		answer = DefaultStubAnswer
	}
	return &StubClient{answer: answer}
}

func (c *StubClient) Name() string { return "stub" }

func (c *StubClient) SendRequest(_ context.Context, _ Prompt) (string, error) {
	return c.answer, nil
}
