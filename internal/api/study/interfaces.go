package study

import (
	"context"

	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/entity"
)

type StudyUsecase interface {
	AnswerChat(ctx context.Context, userID, question string) (*entity.ChatAnswer, error)
	GenerateQuiz(ctx context.Context, userID, topic string, count int) (*entity.Quiz, error)
	GeneratePuzzle(ctx context.Context, userID string, typ entity.PuzzleType, count int) (*entity.PuzzleSet, error)
	GenerateQuestions(ctx context.Context, userID string, typ entity.QuestionType, count int) (*entity.QuestionSet, error)
}
