package tutor

import (
	"context"

	"github.com/example/growtalk/internal/session"
)

// OpenController runs the open-ended warm-up flow. A single reflective
// question with no retry tiers: any relevant response completes it.
type OpenController struct {
	deps
}

// Start fetches the open question for the student's current day and cursor,
// opens a session for it and sends the question with its localized framing.
func (c *OpenController) Start(ctx context.Context, studentID int64) error {
	c.sessions.Delete(studentID, session.TrackOpen)

	student, err := c.progress.GetStudent(ctx, studentID)
	if err != nil {
		return err
	}

	q, err := c.progress.CurrentOpenQuestion(ctx, student)
	if err != nil {
		return err
	}
	if q == nil {
		c.send(studentID, msgOpenAllDone)
		return nil
	}

	msg, err := c.judge.TranslateOpenQuestion(ctx, q.Question)
	if err != nil {
		return err
	}

	c.sessions.Put(studentID, session.TrackOpen, &session.Session{
		Track: session.TrackOpen,
		Open:  q,
	})
	c.send(studentID, msg)
	return nil
}

// HandleReply engages with any relevant response, surfaces the question's
// learning objective and moves on; irrelevant input is redirected back to the
// passage with the session left in place.
func (c *OpenController) HandleReply(ctx context.Context, studentID int64, reply string) error {
	sess, ok := c.sessions.Get(studentID, session.TrackOpen)
	if !ok {
		c.send(studentID, msgOpenReenter)
		return nil
	}
	q := sess.Open

	relevant, err := c.judge.IsRelevant(ctx, reply, q.Question)
	if err != nil {
		return err
	}
	if !relevant {
		c.send(studentID, msgOpenRedirect)
		return nil
	}

	response, err := c.judge.RespondToOpenAnswer(ctx, reply, q.Question, q.Objective, q.Answer)
	if err != nil {
		response = msgOpenReplyFallback
	}
	c.send(studentID, response)

	if err := c.progress.AdvanceOpen(ctx, studentID); err != nil {
		return err
	}
	c.sessions.Delete(studentID, session.TrackOpen)
	return c.Start(ctx, studentID)
}
