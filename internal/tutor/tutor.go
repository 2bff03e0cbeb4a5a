package tutor

import (
	"context"
	"errors"
	"log"

	"github.com/example/growtalk/internal/session"
	"github.com/example/growtalk/pkg/models"
)

// ErrInvalidAttempt reports an attempt counter outside the valid range of its
// track. It signals an internal bug, not a recoverable condition.
var ErrInvalidAttempt = errors.New("attempt counter out of range")

// Judge is the external semantic oracle. Classification methods answer yes/no
// questions about a student utterance; the rest generate instructional prose.
type Judge interface {
	// EvaluateAnswer reports whether the utterance matches the canonical
	// answer in meaning rather than exact wording.
	EvaluateAnswer(ctx context.Context, utterance, canonicalAnswer string) (bool, error)
	// IsAnswerAttempt reports whether the utterance is trying to answer the
	// active question at all.
	IsAnswerAttempt(ctx context.Context, utterance, activeQuestion string) (bool, error)
	// IsRelevant reports whether the utterance relates to the learning task
	// or English learning in general.
	IsRelevant(ctx context.Context, utterance, activeQuestion string) (bool, error)

	GreetStudent(ctx context.Context, name string) (string, error)
	AnswerFreeQuestion(ctx context.Context, question string) (string, error)
	RedirectOffTopic(ctx context.Context, input string) (string, error)

	AskVocabMeaning(ctx context.Context, item *models.VocabItem) (string, error)
	VocabPraise(ctx context.Context, item *models.VocabItem) (string, error)
	// VocabFeedback returns a hint on attempt 1 and the full explanation
	// (answer, mnemonic, root) on attempt 2.
	VocabFeedback(ctx context.Context, item *models.VocabItem, utterance string, attempt int) (string, error)

	// QuestionIntro composes the message opening a closed question, including
	// a transition referencing priorLearning when bridging from a reflection.
	QuestionIntro(ctx context.Context, question, studentName, priorLearning string) (string, error)
	// ClosedFeedback escalates over attempts: 1 = indirect nudge, 2 = points
	// at a key concept without the answer, 3 = reveal and explain.
	ClosedFeedback(ctx context.Context, utterance, canonicalAnswer, question, passage string, attempt int) (string, error)
	AskWhyCorrect(ctx context.Context, question, utterance, passage string) (string, error)
	RespondToReflection(ctx context.Context, reflection, question, canonicalAnswer, passage string) (string, error)

	TranslateOpenQuestion(ctx context.Context, question string) (string, error)
	RespondToOpenAnswer(ctx context.Context, utterance, question, objective, canonicalAnswer string) (string, error)
}

// ProgressStore owns the durable per-student cursors and the content tables.
// Current* lookups return nil with no error when the day's content at the
// cursor is exhausted; Advance* increments exactly one cursor and must be
// called exactly once per completion event.
type ProgressStore interface {
	GetStudent(ctx context.Context, id int64) (*models.Student, error)
	CurrentVocabItem(ctx context.Context, student *models.Student) (*models.VocabItem, error)
	CurrentClosedQuestion(ctx context.Context, student *models.Student) (*models.ClosedQuestion, error)
	CurrentOpenQuestion(ctx context.Context, student *models.Student) (*models.OpenQuestion, error)
	AdvanceVocab(ctx context.Context, id int64) error
	AdvanceClosed(ctx context.Context, id int64) error
	AdvanceOpen(ctx context.Context, id int64) error
}

// Notifier delivers a text message to the student's channel. LastPrompt
// returns the most recent text sent to the student, used by the dispatcher to
// interpret replies that arrive outside any active session.
type Notifier interface {
	Send(studentID int64, text string) error
	LastPrompt(studentID int64) string
}

// deps bundles the collaborators shared by the controllers and the dispatcher.
type deps struct {
	sessions session.Store
	progress ProgressStore
	judge    Judge
	notify   Notifier
}

// send delivers a message and logs delivery failures. A failed send never
// rolls back a cursor advance that already happened; the student may miss a
// message while their progress has moved on.
func (d *deps) send(studentID int64, text string) {
	if err := d.notify.Send(studentID, text); err != nil {
		log.Printf("tutor: send to %d failed: %v", studentID, err)
	}
}
