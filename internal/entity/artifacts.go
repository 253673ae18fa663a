package entity

import (
	"encoding/json"
	"fmt"
)

// The LLM is asked for strict JSON, but its output is never trusted as-is.
// Each artifact shape is decoded from the extracted JSON object and then
// checked for required fields; an artifact missing required fields is
// rejected with ErrParseFailed rather than passed through.

// ChatAnswer is the structured answer to a chat question.
type ChatAnswer struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources,omitempty"`
}

// QuizItem is a single multiple-choice question.
type QuizItem struct {
	ID          string            `json:"id"`
	Question    string            `json:"question"`
	Options     map[string]string `json:"options"`
	Correct     string            `json:"correct"`
	Explanation string            `json:"explanation"`
}

// Quiz is a set of multiple-choice questions.
type Quiz struct {
	Questions []QuizItem `json:"questions"`
}

// PuzzleItem is one fill-in-the-blank or word-scramble puzzle. Sentence,
// Answer and Hint are set for fill_blank; Word and Hint for word_scramble.
type PuzzleItem struct {
	ID       string `json:"id"`
	Sentence string `json:"sentence,omitempty"`
	Answer   string `json:"answer,omitempty"`
	Word     string `json:"word,omitempty"`
	Hint     string `json:"hint"`
}

// PuzzleSet is a set of puzzles of a single type.
type PuzzleSet struct {
	Type    PuzzleType   `json:"type"`
	Puzzles []PuzzleItem `json:"puzzles"`
}

// QuestionItem is one question-bank entry. Which fields are required
// depends on the set's type.
type QuestionItem struct {
	ID          string `json:"id"`
	Question    string `json:"question,omitempty"`
	Answer      string `json:"answer,omitempty"`
	Statement   string `json:"statement,omitempty"`
	IsTrue      *bool  `json:"is_true,omitempty"`
	Explanation string `json:"explanation,omitempty"`
	Front       string `json:"front,omitempty"`
	Back        string `json:"back,omitempty"`
}

// QuestionSet is a set of question-bank entries of a single type.
type QuestionSet struct {
	Type      QuestionType   `json:"type"`
	Questions []QuestionItem `json:"questions"`
}

// ParseChatAnswer decodes and validates a chat answer object.
func ParseChatAnswer(raw json.RawMessage) (*ChatAnswer, error) {
	var a ChatAnswer
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("%w: decode chat answer: %v", ErrParseFailed, err)
	}
	if a.Answer == "" {
		return nil, fmt.Errorf("%w: chat answer missing answer field", ErrParseFailed)
	}
	return &a, nil
}

// ParseQuiz decodes and validates a quiz object.
func ParseQuiz(raw json.RawMessage) (*Quiz, error) {
	var q Quiz
	if err := json.Unmarshal(raw, &q); err != nil {
		return nil, fmt.Errorf("%w: decode quiz: %v", ErrParseFailed, err)
	}
	if len(q.Questions) == 0 {
		return nil, fmt.Errorf("%w: quiz has no questions", ErrParseFailed)
	}
	for i, item := range q.Questions {
		if item.ID == "" || item.Question == "" || item.Correct == "" {
			return nil, fmt.Errorf("%w: quiz item %d missing required fields", ErrParseFailed, i)
		}
		if len(item.Options) < 2 {
			return nil, fmt.Errorf("%w: quiz item %q needs at least two options", ErrParseFailed, item.ID)
		}
		if _, ok := item.Options[item.Correct]; !ok {
			return nil, fmt.Errorf("%w: quiz item %q correct key %q not among options", ErrParseFailed, item.ID, item.Correct)
		}
	}
	return &q, nil
}

// ParsePuzzleSet decodes and validates a puzzle set of the given type.
func ParsePuzzleSet(raw json.RawMessage, typ PuzzleType) (*PuzzleSet, error) {
	var p PuzzleSet
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("%w: decode puzzles: %v", ErrParseFailed, err)
	}
	p.Type = typ
	if len(p.Puzzles) == 0 {
		return nil, fmt.Errorf("%w: puzzle set is empty", ErrParseFailed)
	}
	for i, item := range p.Puzzles {
		if item.ID == "" {
			return nil, fmt.Errorf("%w: puzzle %d missing id", ErrParseFailed, i)
		}
		switch typ {
		case PuzzleFillBlank:
			if item.Sentence == "" || item.Answer == "" {
				return nil, fmt.Errorf("%w: fill_blank puzzle %q missing sentence or answer", ErrParseFailed, item.ID)
			}
		case PuzzleScramble:
			if item.Word == "" {
				return nil, fmt.Errorf("%w: word_scramble puzzle %q missing word", ErrParseFailed, item.ID)
			}
		default:
			return nil, fmt.Errorf("%w: puzzle type %q", ErrInvalidParameter, typ)
		}
	}
	return &p, nil
}

// ParseQuestionSet decodes and validates a question set of the given type.
func ParseQuestionSet(raw json.RawMessage, typ QuestionType) (*QuestionSet, error) {
	var q QuestionSet
	if err := json.Unmarshal(raw, &q); err != nil {
		return nil, fmt.Errorf("%w: decode questions: %v", ErrParseFailed, err)
	}
	q.Type = typ
	if len(q.Questions) == 0 {
		return nil, fmt.Errorf("%w: question set is empty", ErrParseFailed)
	}
	for i, item := range q.Questions {
		if item.ID == "" {
			return nil, fmt.Errorf("%w: question %d missing id", ErrParseFailed, i)
		}
		switch typ {
		case QuestionShortAnswer:
			if item.Question == "" || item.Answer == "" {
				return nil, fmt.Errorf("%w: short_answer question %q missing question or answer", ErrParseFailed, item.ID)
			}
		case QuestionTrueFalse:
			if item.Statement == "" || item.IsTrue == nil {
				return nil, fmt.Errorf("%w: true_false question %q missing statement or is_true", ErrParseFailed, item.ID)
			}
		case QuestionFlashcard:
			if item.Front == "" || item.Back == "" {
				return nil, fmt.Errorf("%w: flashcard %q missing front or back", ErrParseFailed, item.ID)
			}
		default:
			return nil, fmt.Errorf("%w: question type %q", ErrInvalidParameter, typ)
		}
	}
	return &q, nil
}
