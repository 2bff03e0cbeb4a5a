package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/growtalk/pkg/models"
)

// ErrStudentNotFound is returned when no student row exists for an identity.
var ErrStudentNotFound = errors.New("student not found")

// StudentRepository handles database operations for students
type StudentRepository struct{}

// NewStudentRepository creates a new repository instance
func NewStudentRepository() *StudentRepository {
	return &StudentRepository{}
}

// GetByChatID returns a student by their chat id.
func (r *StudentRepository) GetByChatID(ctx context.Context, chatID int64) (*models.Student, error) {
	var student models.Student
	query := DB.Rebind("SELECT * FROM students WHERE chat_id = ?")
	err := DB.GetContext(ctx, &student, query, chatID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: chat id %d", ErrStudentNotFound, chatID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %v", err)
	}
	return &student, nil
}

// Create inserts a new student with fresh cursors.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	query := DB.Rebind(`
		INSERT INTO students (chat_id, name, day_of_training, vocab_cursor, closed_cursor, open_cursor, notification_enabled, notification_hour)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err := DB.ExecContext(ctx, query,
		student.ChatID,
		student.Name,
		student.DayOfTraining,
		student.VocabCursor,
		student.ClosedCursor,
		student.OpenCursor,
		student.NotificationEnabled,
		student.NotificationHour,
	)
	if err != nil {
		return fmt.Errorf("failed to create student: %v", err)
	}
	return nil
}

// advanceCursor increments exactly one named cursor column by 1.
func (r *StudentRepository) advanceCursor(ctx context.Context, chatID int64, column string) error {
	query := DB.Rebind(fmt.Sprintf(
		"UPDATE students SET %s = %s + 1, updated_at = CURRENT_TIMESTAMP WHERE chat_id = ?", column, column))
	res, err := DB.ExecContext(ctx, query, chatID)
	if err != nil {
		return fmt.Errorf("failed to advance %s: %v", column, err)
	}
	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("%w: chat id %d", ErrStudentNotFound, chatID)
	}
	return nil
}

// AdvanceVocab moves the student's vocabulary cursor to the next word.
func (r *StudentRepository) AdvanceVocab(ctx context.Context, chatID int64) error {
	return r.advanceCursor(ctx, chatID, "vocab_cursor")
}

// AdvanceClosed moves the student's closed-question cursor to the next question.
func (r *StudentRepository) AdvanceClosed(ctx context.Context, chatID int64) error {
	return r.advanceCursor(ctx, chatID, "closed_cursor")
}

// AdvanceOpen moves the student's open-question cursor to the next question.
func (r *StudentRepository) AdvanceOpen(ctx context.Context, chatID int64) error {
	return r.advanceCursor(ctx, chatID, "open_cursor")
}

// AdvanceDay moves the student to the next training day and resets all three
// cursors to the start of that day's content.
func (r *StudentRepository) AdvanceDay(ctx context.Context, chatID int64) error {
	query := DB.Rebind(`
		UPDATE students SET
			day_of_training = day_of_training + 1,
			vocab_cursor = 0,
			closed_cursor = 1,
			open_cursor = 1,
			updated_at = CURRENT_TIMESTAMP
		WHERE chat_id = ?
	`)
	res, err := DB.ExecContext(ctx, query, chatID)
	if err != nil {
		return fmt.Errorf("failed to advance training day: %v", err)
	}
	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("%w: chat id %d", ErrStudentNotFound, chatID)
	}
	return nil
}

// GetAll returns all enrolled students.
func (r *StudentRepository) GetAll(ctx context.Context) ([]models.Student, error) {
	var students []models.Student
	err := DB.SelectContext(ctx, &students, "SELECT * FROM students ORDER BY chat_id")
	if err != nil {
		return nil, fmt.Errorf("failed to get students: %v", err)
	}
	return students, nil
}

// GetForNotification returns students with notifications enabled whose
// preferred hour matches.
func (r *StudentRepository) GetForNotification(ctx context.Context, hour int) ([]models.Student, error) {
	var students []models.Student
	query := DB.Rebind("SELECT * FROM students WHERE notification_enabled = ? AND notification_hour = ?")
	err := DB.SelectContext(ctx, &students, query, true, hour)
	if err != nil {
		return nil, fmt.Errorf("failed to get students for notification: %v", err)
	}
	return students, nil
}
