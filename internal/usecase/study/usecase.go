// Package study turns a user's indexed material into study artifacts:
// grounded chat answers, quizzes, puzzles, and question banks.
package study

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/config"
	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/entity"
	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/pkg/jsonx"
	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/prompt"
)

// Hard caps on generated item counts. Requests above a cap are clamped,
// not rejected.
const (
	MaxQuizQuestions = 10
	MaxPuzzles       = 12
	MaxBankQuestions = 10
	defaultItemCount = 5
)

// defaultQuery is used to retrieve context when the caller gives no topic.
const defaultQuery = "key concepts and important topics"

// StudyUsecase implements study artifact business logic
type StudyUsecase struct {
	retriever      Retriever
	generator      Generator
	chatTopK       int
	generationTopK int
	logger         *zap.Logger
}

// NewUsecase creates a new study use case
func NewUsecase(retriever Retriever, generator Generator, cfg config.RetrievalConfig, logger *zap.Logger) *StudyUsecase {
	return &StudyUsecase{
		retriever:      retriever,
		generator:      generator,
		chatTopK:       cfg.ChatTopK,
		generationTopK: cfg.GenerationTopK,
		logger:         logger,
	}
}

// AnswerChat answers a question from the user's documents only.
func (uc *StudyUsecase) AnswerChat(ctx context.Context, userID, question string) (*entity.ChatAnswer, error) {
	if question == "" {
		return nil, fmt.Errorf("%w: question", entity.ErrMissingField)
	}

	result, err := uc.retriever.Retrieve(ctx, userID, question, uc.chatTopK)
	if err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}

	raw, err := uc.generate(ctx, prompt.BuildChatPrompt(result, question))
	if err != nil {
		return nil, err
	}

	answer, err := entity.ParseChatAnswer(raw)
	if err != nil {
		return nil, err
	}

	ctxzap.Info(ctx, "chat answered",
		zap.String("user_id", userID),
		zap.Int("context_chunks", len(result.Chunks)),
	)
	return answer, nil
}

// GenerateQuiz builds a multiple-choice quiz from the user's documents.
// topic narrows both retrieval and the quiz focus; empty means the whole
// library.
func (uc *StudyUsecase) GenerateQuiz(ctx context.Context, userID, topic string, count int) (*entity.Quiz, error) {
	count = clampCount(count, MaxQuizQuestions)

	query := topic
	if query == "" {
		query = defaultQuery
	}
	result, err := uc.retriever.Retrieve(ctx, userID, query, uc.generationTopK)
	if err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}
	if result.Empty() {
		return nil, fmt.Errorf("%w: nothing to build a quiz from", entity.ErrNoStudyMaterial)
	}

	raw, err := uc.generate(ctx, prompt.BuildQuizPrompt(result, count, topic))
	if err != nil {
		return nil, err
	}

	quiz, err := entity.ParseQuiz(raw)
	if err != nil {
		return nil, err
	}

	ctxzap.Info(ctx, "quiz generated",
		zap.String("user_id", userID),
		zap.Int("question_count", len(quiz.Questions)),
	)
	return quiz, nil
}

// GeneratePuzzle builds fill-in-the-blank or word-scramble puzzles.
func (uc *StudyUsecase) GeneratePuzzle(ctx context.Context, userID string, typ entity.PuzzleType, count int) (*entity.PuzzleSet, error) {
	switch typ {
	case entity.PuzzleFillBlank, entity.PuzzleScramble:
	default:
		return nil, fmt.Errorf("%w: puzzle type %q", entity.ErrInvalidParameter, typ)
	}
	count = clampCount(count, MaxPuzzles)

	result, err := uc.retriever.Retrieve(ctx, userID, defaultQuery, uc.generationTopK)
	if err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}
	if result.Empty() {
		return nil, fmt.Errorf("%w: nothing to build puzzles from", entity.ErrNoStudyMaterial)
	}

	raw, err := uc.generate(ctx, prompt.BuildPuzzlePrompt(result, typ, count))
	if err != nil {
		return nil, err
	}

	set, err := entity.ParsePuzzleSet(raw, typ)
	if err != nil {
		return nil, err
	}

	ctxzap.Info(ctx, "puzzles generated",
		zap.String("user_id", userID),
		zap.String("puzzle_type", string(typ)),
		zap.Int("puzzle_count", len(set.Puzzles)),
	)
	return set, nil
}

// GenerateQuestions builds a question bank of the requested subtype.
func (uc *StudyUsecase) GenerateQuestions(ctx context.Context, userID string, typ entity.QuestionType, count int) (*entity.QuestionSet, error) {
	switch typ {
	case entity.QuestionShortAnswer, entity.QuestionTrueFalse, entity.QuestionFlashcard:
	default:
		return nil, fmt.Errorf("%w: question type %q", entity.ErrInvalidParameter, typ)
	}
	count = clampCount(count, MaxBankQuestions)

	result, err := uc.retriever.Retrieve(ctx, userID, defaultQuery, uc.generationTopK)
	if err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}
	if result.Empty() {
		return nil, fmt.Errorf("%w: nothing to build questions from", entity.ErrNoStudyMaterial)
	}

	raw, err := uc.generate(ctx, prompt.BuildQuestionsPrompt(result, typ, count))
	if err != nil {
		return nil, err
	}

	set, err := entity.ParseQuestionSet(raw, typ)
	if err != nil {
		return nil, err
	}

	ctxzap.Info(ctx, "questions generated",
		zap.String("user_id", userID),
		zap.String("question_type", string(typ)),
		zap.Int("question_count", len(set.Questions)),
	)
	return set, nil
}

// generate runs the model and extracts the JSON object from its output.
func (uc *StudyUsecase) generate(ctx context.Context, promptText string) (json.RawMessage, error) {
	completion, err := uc.generator.Generate(ctx, promptText)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	raw, ok := jsonx.ExtractObject(completion)
	if !ok {
		return nil, fmt.Errorf("%w: no JSON object in model output", entity.ErrParseFailed)
	}
	return raw, nil
}

func clampCount(count, max int) int {
	if count < 1 {
		return defaultItemCount
	}
	if count > max {
		return max
	}
	return count
}
