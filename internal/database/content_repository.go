package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/growtalk/pkg/models"
)

// ContentRepository handles database operations for the read-only content
// tables: vocabulary items, passages and questions, all keyed by training day.
type ContentRepository struct{}

// NewContentRepository creates a new repository instance
func NewContentRepository() *ContentRepository {
	return &ContentRepository{}
}

// VocabItemAt returns the vocab item at the given 0-based position within a
// day, or nil when the day's list is exhausted.
func (r *ContentRepository) VocabItemAt(ctx context.Context, day, position int) (*models.VocabItem, error) {
	var item models.VocabItem
	query := DB.Rebind("SELECT * FROM vocab_items WHERE day = ? AND position = ?")
	err := DB.GetContext(ctx, &item, query, day, position)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vocab item: %v", err)
	}
	return &item, nil
}

// PassageForDay returns the reading passage of a training day. A missing
// passage is a content configuration error, not exhaustion.
func (r *ContentRepository) PassageForDay(ctx context.Context, day int) (string, error) {
	var passage string
	query := DB.Rebind("SELECT passage_text FROM passages WHERE day = ?")
	err := DB.GetContext(ctx, &passage, query, day)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("no passage found for day %d", day)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get passage: %v", err)
	}
	return passage, nil
}

// ClosedQuestionAt returns the closed question with the given 1-based id
// within a day, or nil when the day's questions are exhausted. The day's
// passage is attached to the returned question; a question without a passage
// is a content configuration error. Days with no questions at all (past the
// end of the curriculum) are plain exhaustion and never touch the passages
// table.
func (r *ContentRepository) ClosedQuestionAt(ctx context.Context, day, questionID int) (*models.ClosedQuestion, error) {
	var q models.ClosedQuestion
	query := DB.Rebind("SELECT id, day, question_id, question_text, answer_text FROM closed_questions WHERE day = ? AND question_id = ?")
	err := DB.GetContext(ctx, &q, query, day, questionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get closed question: %v", err)
	}

	passage, err := r.PassageForDay(ctx, day)
	if err != nil {
		return nil, err
	}
	q.Passage = passage
	return &q, nil
}

// OpenQuestionAt returns the open question with the given 1-based id within a
// day, or nil when the day's questions are exhausted.
func (r *ContentRepository) OpenQuestionAt(ctx context.Context, day, questionID int) (*models.OpenQuestion, error) {
	var q models.OpenQuestion
	query := DB.Rebind("SELECT * FROM open_questions WHERE day = ? AND question_id = ?")
	err := DB.GetContext(ctx, &q, query, day, questionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get open question: %v", err)
	}
	return &q, nil
}

// CreateVocabItem inserts one vocabulary item (used by the importer).
func (r *ContentRepository) CreateVocabItem(ctx context.Context, item *models.VocabItem) error {
	query := DB.Rebind(`
		INSERT INTO vocab_items (day, position, word, part_of_speech, meaning, example, mnemonic, root, tip)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err := DB.ExecContext(ctx, query,
		item.Day, item.Position, item.Word, item.PartOfSpeech,
		item.Meaning, item.Example, item.Mnemonic, item.Root, item.Tip)
	if err != nil {
		return fmt.Errorf("failed to create vocab item: %v", err)
	}
	return nil
}

// CreatePassage inserts the passage of a training day (used by the importer).
func (r *ContentRepository) CreatePassage(ctx context.Context, day int, text string) error {
	query := DB.Rebind("INSERT INTO passages (day, passage_text) VALUES (?, ?)")
	if _, err := DB.ExecContext(ctx, query, day, text); err != nil {
		return fmt.Errorf("failed to create passage: %v", err)
	}
	return nil
}

// CreateClosedQuestion inserts one closed question (used by the importer).
func (r *ContentRepository) CreateClosedQuestion(ctx context.Context, q *models.ClosedQuestion) error {
	query := DB.Rebind(`
		INSERT INTO closed_questions (day, question_id, question_text, answer_text)
		VALUES (?, ?, ?, ?)
	`)
	if _, err := DB.ExecContext(ctx, query, q.Day, q.QuestionID, q.Question, q.Answer); err != nil {
		return fmt.Errorf("failed to create closed question: %v", err)
	}
	return nil
}

// CreateOpenQuestion inserts one open question (used by the importer).
func (r *ContentRepository) CreateOpenQuestion(ctx context.Context, q *models.OpenQuestion) error {
	query := DB.Rebind(`
		INSERT INTO open_questions (day, question_id, question_text, answer_text, learning_objective)
		VALUES (?, ?, ?, ?, ?)
	`)
	if _, err := DB.ExecContext(ctx, query, q.Day, q.QuestionID, q.Question, q.Answer, q.Objective); err != nil {
		return fmt.Errorf("failed to create open question: %v", err)
	}
	return nil
}
