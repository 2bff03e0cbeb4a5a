package tutor

import (
	"context"
	"fmt"

	"github.com/example/growtalk/internal/session"
)

// VocabController drives the scaffolded vocabulary drill: ask the meaning,
// hint after a first miss, reveal after a second. One word is in play per
// student at a time.
type VocabController struct {
	deps
}

// Start fetches the next word for the student's current day and cursor and
// opens a session for it. When the day's words are exhausted it sends a
// completion notification and opens nothing.
func (c *VocabController) Start(ctx context.Context, studentID int64) error {
	c.sessions.Delete(studentID, session.TrackVocab)

	student, err := c.progress.GetStudent(ctx, studentID)
	if err != nil {
		return err
	}

	item, err := c.progress.CurrentVocabItem(ctx, student)
	if err != nil {
		return err
	}
	if item == nil {
		c.send(studentID, msgVocabAllDone)
		return nil
	}

	prompt, err := c.judge.AskVocabMeaning(ctx, item)
	if err != nil {
		return err
	}

	c.sessions.Put(studentID, session.TrackVocab, &session.Session{
		Track:   session.TrackVocab,
		Attempt: 1,
		Vocab:   item,
	})
	c.send(studentID, prompt)
	return nil
}

// HandleReply evaluates the student's guess against the word's canonical
// meaning and either praises, hints, or reveals depending on the attempt.
func (c *VocabController) HandleReply(ctx context.Context, studentID int64, reply string) error {
	sess, ok := c.sessions.Get(studentID, session.TrackVocab)
	if !ok {
		c.send(studentID, msgVocabReenter)
		return nil
	}
	if sess.Attempt != 1 && sess.Attempt != 2 {
		return fmt.Errorf("%w: vocab attempt %d", ErrInvalidAttempt, sess.Attempt)
	}

	correct, err := c.judge.EvaluateAnswer(ctx, reply, sess.Vocab.Meaning)
	if err != nil {
		return err
	}

	if correct {
		msg, err := c.judge.VocabPraise(ctx, sess.Vocab)
		if err != nil {
			return err
		}
		c.send(studentID, msg)
		if err := c.progress.AdvanceVocab(ctx, studentID); err != nil {
			return err
		}
		c.sessions.Delete(studentID, session.TrackVocab)
		return c.Start(ctx, studentID)
	}

	if sess.Attempt == 1 {
		msg, err := c.judge.VocabFeedback(ctx, sess.Vocab, reply, 1)
		if err != nil {
			return err
		}
		sess.Attempt = 2
		c.sessions.Put(studentID, session.TrackVocab, sess)
		c.send(studentID, msg)
		return nil
	}

	// second miss: reveal, advance anyway, move on
	msg, err := c.judge.VocabFeedback(ctx, sess.Vocab, reply, 2)
	if err != nil {
		return err
	}
	if err := c.progress.AdvanceVocab(ctx, studentID); err != nil {
		return err
	}
	c.sessions.Delete(studentID, session.TrackVocab)
	c.send(studentID, msg)
	return c.Start(ctx, studentID)
}
