package database

import (
	"context"

	"github.com/example/growtalk/pkg/models"
)

// ProgressStore composes the student and content repositories into the
// durable progress contract the orchestration core consumes.
type ProgressStore struct {
	students *StudentRepository
	content  *ContentRepository
}

// NewProgressStore creates a progress store over the global connection.
func NewProgressStore() *ProgressStore {
	return &ProgressStore{
		students: NewStudentRepository(),
		content:  NewContentRepository(),
	}
}

// GetStudent returns the durable record of a student.
func (p *ProgressStore) GetStudent(ctx context.Context, id int64) (*models.Student, error) {
	return p.students.GetByChatID(ctx, id)
}

// CurrentVocabItem returns the word at the student's vocabulary cursor, or
// nil when today's words are exhausted.
func (p *ProgressStore) CurrentVocabItem(ctx context.Context, student *models.Student) (*models.VocabItem, error) {
	return p.content.VocabItemAt(ctx, student.DayOfTraining, student.VocabCursor)
}

// CurrentClosedQuestion returns the question at the student's closed cursor
// with the day's passage attached, or nil when today's questions are done.
func (p *ProgressStore) CurrentClosedQuestion(ctx context.Context, student *models.Student) (*models.ClosedQuestion, error) {
	return p.content.ClosedQuestionAt(ctx, student.DayOfTraining, student.ClosedCursor)
}

// CurrentOpenQuestion returns the question at the student's open cursor, or
// nil when today's questions are done.
func (p *ProgressStore) CurrentOpenQuestion(ctx context.Context, student *models.Student) (*models.OpenQuestion, error) {
	return p.content.OpenQuestionAt(ctx, student.DayOfTraining, student.OpenCursor)
}

// AdvanceVocab increments the student's vocabulary cursor by one.
func (p *ProgressStore) AdvanceVocab(ctx context.Context, id int64) error {
	return p.students.AdvanceVocab(ctx, id)
}

// AdvanceClosed increments the student's closed-question cursor by one.
func (p *ProgressStore) AdvanceClosed(ctx context.Context, id int64) error {
	return p.students.AdvanceClosed(ctx, id)
}

// AdvanceOpen increments the student's open-question cursor by one.
func (p *ProgressStore) AdvanceOpen(ctx context.Context, id int64) error {
	return p.students.AdvanceOpen(ctx, id)
}
