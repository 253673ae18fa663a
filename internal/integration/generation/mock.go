package generation

import (
	"context"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockClient answers every prompt with canned JSON matching the schema the
// prompt asks for, keyed off the schema markers the prompt templates embed.
// Used when ENABLE_MOCKS is set and no model backend is available.
type MockClient struct {
	logger *zap.Logger
}

func NewMockClient(logger *zap.Logger) *MockClient {
	return &MockClient{logger: logger}
}

func (m *MockClient) Generate(ctx context.Context, prompt string) (string, error) {
	ctxzap.Info(ctx, "[MOCK] generating completion", zap.Int("prompt_length", len(prompt)))

	switch {
	case strings.Contains(prompt, `"correct"`):
		return `{"questions":[{"id":"q1","question":"What is covered by the uploaded notes?","options":{"A":"The indexed material","B":"Unrelated trivia","C":"Nothing","D":"Everything"},"correct":"A","explanation":"Mock answer derived from the provided context."}]}`, nil
	case strings.Contains(prompt, `"sentence"`):
		return `{"puzzles":[{"id":"p1","sentence":"This is a mock _____ puzzle.","answer":"fill-in","hint":"Generated without a model backend."}]}`, nil
	case strings.Contains(prompt, `"word"`):
		return `{"puzzles":[{"id":"p1","word":"mockword","hint":"Generated without a model backend."}]}`, nil
	case strings.Contains(prompt, `"statement"`):
		return `{"questions":[{"id":"t1","statement":"This output comes from the mock client.","is_true":true,"explanation":"No model backend is configured."}]}`, nil
	case strings.Contains(prompt, `"front"`):
		return `{"questions":[{"id":"c1","front":"Mock flashcard front","back":"Mock flashcard back"}]}`, nil
	case strings.Contains(prompt, `"answer"`) && strings.Contains(prompt, `"question"`):
		return `{"questions":[{"id":"s1","question":"What produced this answer?","answer":"The mock generation client."}]}`, nil
	default:
		return `{"answer":"Mock answer based on the provided context."}`, nil
	}
}
