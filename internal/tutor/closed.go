package tutor

import (
	"context"
	"fmt"

	"github.com/example/growtalk/internal/session"
)

// ClosedController runs the closed-ended comprehension flow. It is the most
// stateful of the three tracks: three escalating attempts per question, then a
// reflection exchange after a correct answer before the cursor moves on.
//
// Escalation is fixed: attempt 1 gets an indirect nudge with no key term,
// attempt 2 points at a key concept but withholds the answer, attempt 3
// reveals the answer with an explanation.
type ClosedController struct {
	deps
}

// Start fetches the day's passage and the question at the student's cursor
// and opens a session. priorLearning carries the reflection text of the
// question just completed, so the intro can bridge from it; it is empty when
// the track is started fresh.
func (c *ClosedController) Start(ctx context.Context, studentID int64, priorLearning string) error {
	c.sessions.Delete(studentID, session.TrackClosed)

	student, err := c.progress.GetStudent(ctx, studentID)
	if err != nil {
		return err
	}

	q, err := c.progress.CurrentClosedQuestion(ctx, student)
	if err != nil {
		return err
	}
	if q == nil {
		c.send(studentID, msgClosedAllDone)
		return nil
	}

	intro, err := c.judge.QuestionIntro(ctx, q.Question, student.Name, priorLearning)
	if err != nil {
		return err
	}

	c.sessions.Put(studentID, session.TrackClosed, &session.Session{
		Track:    session.TrackClosed,
		Attempt:  1,
		Mode:     session.ModeNormal,
		Passage:  q.Passage,
		Question: q.Question,
		Answer:   q.Answer,
	})
	c.send(studentID, intro)
	return nil
}

// HandleReply routes the utterance through the question/answer state machine,
// or treats it as the reflection text when the session is in reflection mode.
func (c *ClosedController) HandleReply(ctx context.Context, studentID int64, reply string) error {
	sess, ok := c.sessions.Get(studentID, session.TrackClosed)
	if !ok {
		c.send(studentID, msgClosedReenter)
		return nil
	}

	if sess.Mode == session.ModeReflection {
		return c.handleReflection(ctx, studentID, sess, reply)
	}

	if sess.Attempt < 1 || sess.Attempt > 3 {
		return fmt.Errorf("%w: closed attempt %d", ErrInvalidAttempt, sess.Attempt)
	}

	answering, err := c.judge.IsAnswerAttempt(ctx, reply, sess.Question)
	if err != nil {
		return err
	}
	if !answering {
		// The student is not answering. Help if the digression is still about
		// learning, otherwise redirect; either way the session is untouched.
		relevant, err := c.judge.IsRelevant(ctx, reply, sess.Question)
		if err != nil {
			return err
		}
		if relevant {
			answer, err := c.judge.AnswerFreeQuestion(ctx, reply)
			if err != nil {
				return err
			}
			c.send(studentID, answer)
			return nil
		}
		redirect, err := c.judge.RedirectOffTopic(ctx, reply)
		if err != nil {
			redirect = msgOffTopicFallback
		}
		c.send(studentID, redirect)
		return nil
	}

	correct, err := c.judge.EvaluateAnswer(ctx, reply, sess.Answer)
	if err != nil {
		return err
	}

	if correct {
		why, err := c.judge.AskWhyCorrect(ctx, sess.Question, reply, sess.Passage)
		if err != nil {
			return err
		}
		c.send(studentID, why)
		sess.Mode = session.ModeReflection
		sess.LastAnswer = reply
		c.sessions.Put(studentID, session.TrackClosed, sess)
		return nil
	}

	if sess.Attempt < 3 {
		hint, err := c.judge.ClosedFeedback(ctx, reply, sess.Answer, sess.Question, sess.Passage, sess.Attempt)
		if err != nil {
			return err
		}
		sess.Attempt++
		c.sessions.Put(studentID, session.TrackClosed, sess)
		c.send(studentID, hint)
		c.send(studentID, msgRetryQuestion+sess.Question)
		return nil
	}

	// third miss: reveal and explain, then move to the next question with no
	// prior-learning note
	explanation, err := c.judge.ClosedFeedback(ctx, reply, sess.Answer, sess.Question, sess.Passage, 3)
	if err != nil {
		return err
	}
	c.send(studentID, explanation)
	if err := c.progress.AdvanceClosed(ctx, studentID); err != nil {
		return err
	}
	c.sessions.Delete(studentID, session.TrackClosed)
	return c.Start(ctx, studentID, "")
}

func (c *ClosedController) handleReflection(ctx context.Context, studentID int64, sess *session.Session, reflection string) error {
	response, err := c.judge.RespondToReflection(ctx, reflection, sess.Question, sess.Answer, sess.Passage)
	if err != nil {
		return err
	}
	c.send(studentID, response)

	if err := c.progress.AdvanceClosed(ctx, studentID); err != nil {
		return err
	}
	c.sessions.Delete(studentID, session.TrackClosed)
	// the reflection text frames the transition into the next question
	return c.Start(ctx, studentID, reflection)
}
