package tutor

import (
	"context"
	"strings"
	"sync"

	"github.com/example/growtalk/internal/session"
)

// Dispatcher resolves an inbound message to exactly one controller action.
//
// Precedence is a fixed, ordered list of rules: explicit track-start commands
// win over everything, then an active open-reading session, then an active
// closed-reading session, and finally the vocabulary track as the implicit
// default flow. New tracks are added by inserting a rule at the right rank.
type Dispatcher struct {
	deps
	vocab  *VocabController
	closed *ClosedController
	open   *OpenController
	rules  []rule

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// rule is one entry of the precedence list.
type rule struct {
	name  string
	match func(studentID int64, text string) bool
	run   func(ctx context.Context, studentID int64, text string) error
}

// New wires the three controllers and the precedence rules around the given
// collaborators.
func New(sessions session.Store, progress ProgressStore, judge Judge, notify Notifier) *Dispatcher {
	d := &Dispatcher{
		deps:  deps{sessions: sessions, progress: progress, judge: judge, notify: notify},
		locks: make(map[int64]*sync.Mutex),
	}
	d.vocab = &VocabController{deps: d.deps}
	d.closed = &ClosedController{deps: d.deps}
	d.open = &OpenController{deps: d.deps}

	contains := func(word string) func(int64, string) bool {
		return func(_ int64, text string) bool { return strings.Contains(text, word) }
	}
	hasSession := func(track session.Track) func(int64, string) bool {
		return func(studentID int64, _ string) bool {
			_, ok := d.sessions.Get(studentID, track)
			return ok
		}
	}

	d.rules = []rule{
		{name: "greet", match: contains("start"), run: d.greet},
		{name: "start-vocab", match: contains("vocab"), run: func(ctx context.Context, id int64, _ string) error {
			return d.vocab.Start(ctx, id)
		}},
		{name: "start-reading", match: contains("reading"), run: func(ctx context.Context, id int64, _ string) error {
			return d.closed.Start(ctx, id, "")
		}},
		{name: "start-warmup", match: contains("warm up"), run: func(ctx context.Context, id int64, _ string) error {
			return d.open.Start(ctx, id)
		}},
		{name: "open-session", match: hasSession(session.TrackOpen), run: d.open.HandleReply},
		{name: "closed-session", match: hasSession(session.TrackClosed), run: d.closed.HandleReply},
		{name: "vocab-default", match: func(int64, string) bool { return true }, run: d.vocabFallback},
	}
	return d
}

// HandleIncoming is the single entry point of the orchestration core. One
// message per student is processed to completion (judge calls, cursor updates,
// sends and any auto-chained start) before the next message for the same
// student is admitted. Messages for different students run concurrently.
func (d *Dispatcher) HandleIncoming(ctx context.Context, studentID int64, rawText string) error {
	lock := d.lockFor(studentID)
	lock.Lock()
	defer lock.Unlock()

	text := strings.ToLower(strings.TrimSpace(rawText))
	for _, r := range d.rules {
		if r.match(studentID, text) {
			return r.run(ctx, studentID, text)
		}
	}
	return nil
}

func (d *Dispatcher) lockFor(studentID int64) *sync.Mutex {
	d.mu.Lock()
	defer d.mu.Unlock()
	lock, ok := d.locks[studentID]
	if !ok {
		lock = &sync.Mutex{}
		d.locks[studentID] = lock
	}
	return lock
}

// greet welcomes the student and invites them into the vocab track.
func (d *Dispatcher) greet(ctx context.Context, studentID int64, _ string) error {
	student, err := d.progress.GetStudent(ctx, studentID)
	if err != nil {
		return err
	}
	greeting, err := d.judge.GreetStudent(ctx, student.Name)
	if err != nil {
		return err
	}
	d.send(studentID, greeting)
	return nil
}

// vocabFallback interprets a message that matched no command and no active
// reading session against the last prompt sent to the student. An answer
// attempt goes to the vocabulary controller; a learning question gets answered
// and the vocab track (re)started; anything else is redirected.
func (d *Dispatcher) vocabFallback(ctx context.Context, studentID int64, text string) error {
	lastPrompt := d.notify.LastPrompt(studentID)

	answering, err := d.judge.IsAnswerAttempt(ctx, text, lastPrompt)
	if err != nil {
		return err
	}
	if answering {
		return d.vocab.HandleReply(ctx, studentID, text)
	}

	relevant, err := d.judge.IsRelevant(ctx, text, lastPrompt)
	if err != nil {
		return err
	}
	if relevant {
		answer, err := d.judge.AnswerFreeQuestion(ctx, text)
		if err != nil {
			return err
		}
		d.send(studentID, answer)
		return d.vocab.Start(ctx, studentID)
	}

	redirect, err := d.judge.RedirectOffTopic(ctx, text)
	if err != nil {
		redirect = msgOffTopicFallback
	}
	d.send(studentID, redirect)
	return nil
}
