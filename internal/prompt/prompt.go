// Package prompt assembles retrieved context and task parameters into the
// instruction templates sent to the generation backends. Every template
// pins the model to the supplied context and demands a bare JSON object in
// a fixed schema, with no prose wrapper or markdown fences.
package prompt

import (
	"fmt"
	"strings"

	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/entity"
)

// outputRules is appended to every template. The parser tolerates fenced
// or prose-wrapped output anyway, but asking for bare JSON keeps the
// failure rate down.
const outputRules = `OUTPUT RULES:
- Respond with ONLY a single JSON object in exactly the schema shown above.
- Do not wrap the JSON in markdown fences or add any text before or after it.
- Use ONLY the Context above. Do not use general knowledge, even if you know the answer.`

// noContextNotice replaces the context block when chat retrieval found
// nothing relevant. The model must say so instead of inventing material;
// this is the anti-hallucination contract of the whole system. The
// quiz/puzzle/question builders never see an empty result: generation is
// refused upstream when there is no material to draw from.
const noContextNotice = `Context:
(no relevant material was found in the user's documents)

Because the context is empty, you MUST NOT invent content. `

// FormatContext renders retrieved chunks with provenance separators so the
// model can tell sources apart.
func FormatContext(result entity.RetrievalResult) string {
	if result.Empty() {
		return ""
	}
	var b strings.Builder
	b.WriteString("Context:\n")
	for _, sc := range result.Chunks {
		fmt.Fprintf(&b, "--- source: %s (chunk %d) ---\n", sc.Chunk.Filename, sc.Chunk.Seq)
		b.WriteString(strings.TrimSpace(sc.Chunk.Text))
		b.WriteString("\n")
	}
	return b.String()
}

// BuildChatPrompt builds the tutoring chat template.
func BuildChatPrompt(result entity.RetrievalResult, question string) string {
	var b strings.Builder
	b.WriteString("You are an expert tutor helping a student study from their own notes and documents.\n\n")

	if result.Empty() {
		b.WriteString(noContextNotice)
		b.WriteString(`Set "answer" to a short message telling the student that nothing relevant was found in their uploaded documents and suggesting they upload notes on this topic.` + "\n\n")
	} else {
		b.WriteString(FormatContext(result))
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Question: %s\n\n", question)
	b.WriteString(`Answer with a JSON object in this schema:
{"answer": "your answer here", "sources": ["filename of each context section you used"]}
If the answer is not in the Context, set "answer" to exactly: "I don't have that in my notes." and leave "sources" empty.

`)
	b.WriteString(outputRules)
	return b.String()
}

// BuildQuizPrompt builds the multiple-choice quiz template. topic may be
// empty for a quiz over the whole retrieved material.
func BuildQuizPrompt(result entity.RetrievalResult, count int, topic string) string {
	var b strings.Builder
	b.WriteString("You are a quiz generator creating multiple-choice questions from a student's study material.\n\n")
	b.WriteString(FormatContext(result))
	b.WriteString("\n")

	if topic != "" {
		fmt.Fprintf(&b, "Focus on this topic: %s\n", topic)
	}
	fmt.Fprintf(&b, "Create exactly %d multiple-choice questions.\n\n", count)
	b.WriteString(`Answer with a JSON object in this schema:
{"questions": [
  {"id": "q1",
   "question": "question text",
   "options": {"A": "first option", "B": "second option", "C": "third option", "D": "fourth option"},
   "correct": "A",
   "explanation": "why this option is correct, citing the context"}
]}
Give each question a unique id (q1, q2, ...). The "correct" value must be one of the option keys.

`)
	b.WriteString(outputRules)
	return b.String()
}

// BuildPuzzlePrompt builds the fill-in-the-blank or word-scramble template.
func BuildPuzzlePrompt(result entity.RetrievalResult, typ entity.PuzzleType, count int) string {
	var b strings.Builder
	b.WriteString("You are creating study puzzles from a student's material.\n\n")
	b.WriteString(FormatContext(result))
	b.WriteString("\n")

	switch typ {
	case entity.PuzzleScramble:
		fmt.Fprintf(&b, "Pick exactly %d important terms from the context for a word-scramble game.\n\n", count)
		b.WriteString(`Answer with a JSON object in this schema:
{"puzzles": [
  {"id": "p1", "word": "the term exactly as it appears in the context", "hint": "a short hint that does not contain the word"}
]}
Give each puzzle a unique id (p1, p2, ...).

`)
	default:
		fmt.Fprintf(&b, "Create exactly %d fill-in-the-blank sentences from the context.\n\n", count)
		b.WriteString(`Answer with a JSON object in this schema:
{"puzzles": [
  {"id": "p1", "sentence": "a sentence from the context with the key term replaced by _____", "answer": "the hidden term", "hint": "a short hint that does not contain the answer"}
]}
Use _____ (five underscores) as the blank marker. Give each puzzle a unique id (p1, p2, ...).

`)
	}
	b.WriteString(outputRules)
	return b.String()
}

// BuildQuestionsPrompt builds the question-bank template for the requested
// subtype.
func BuildQuestionsPrompt(result entity.RetrievalResult, typ entity.QuestionType, count int) string {
	var b strings.Builder
	b.WriteString("You are building a question bank from a student's study material.\n\n")
	b.WriteString(FormatContext(result))
	b.WriteString("\n")

	switch typ {
	case entity.QuestionTrueFalse:
		fmt.Fprintf(&b, "Create exactly %d true/false statements about the context.\n\n", count)
		b.WriteString(`Answer with a JSON object in this schema:
{"questions": [
  {"id": "t1", "statement": "a statement that is clearly true or false given the context", "is_true": true, "explanation": "justification citing the context"}
]}
Mix true and false statements. Give each a unique id (t1, t2, ...).

`)
	case entity.QuestionFlashcard:
		fmt.Fprintf(&b, "Create exactly %d flashcards covering the key concepts in the context.\n\n", count)
		b.WriteString(`Answer with a JSON object in this schema:
{"questions": [
  {"id": "c1", "front": "term or question", "back": "definition or answer from the context"}
]}
Give each card a unique id (c1, c2, ...).

`)
	default:
		fmt.Fprintf(&b, "Create exactly %d short-answer questions about the context.\n\n", count)
		b.WriteString(`Answer with a JSON object in this schema:
{"questions": [
  {"id": "s1", "question": "question text", "answer": "a model answer drawn from the context"}
]}
Give each question a unique id (s1, s2, ...).

`)
	}
	b.WriteString(outputRules)
	return b.String()
}
