package tutor

import (
	"context"
	"fmt"

	"github.com/example/growtalk/internal/session"
	"github.com/example/growtalk/pkg/models"
)

// eventLog records the observable side effects of one handled message in
// order, so tests can assert orderings like advance-before-notify and
// delete-before-chain.
type eventLog struct {
	events []string
}

func (l *eventLog) add(format string, args ...interface{}) {
	l.events = append(l.events, fmt.Sprintf(format, args...))
}

// fakeJudge answers classifications from fixed fields and generates
// deterministic labelled text so tests can tell message kinds apart.
type fakeJudge struct {
	correct    bool
	correctErr error
	answering  bool
	relevant   bool
	generErr   error // forces generation methods to fail
}

func (f *fakeJudge) EvaluateAnswer(ctx context.Context, utterance, canonical string) (bool, error) {
	return f.correct, f.correctErr
}

func (f *fakeJudge) IsAnswerAttempt(ctx context.Context, utterance, question string) (bool, error) {
	return f.answering, nil
}

func (f *fakeJudge) IsRelevant(ctx context.Context, utterance, question string) (bool, error) {
	return f.relevant, nil
}

func (f *fakeJudge) gen(text string) (string, error) {
	if f.generErr != nil {
		return "", f.generErr
	}
	return text, nil
}

func (f *fakeJudge) GreetStudent(ctx context.Context, name string) (string, error) {
	return f.gen("greet:" + name)
}

func (f *fakeJudge) AnswerFreeQuestion(ctx context.Context, question string) (string, error) {
	return f.gen("free-answer:" + question)
}

func (f *fakeJudge) RedirectOffTopic(ctx context.Context, input string) (string, error) {
	return f.gen("redirect:" + input)
}

func (f *fakeJudge) AskVocabMeaning(ctx context.Context, item *models.VocabItem) (string, error) {
	return f.gen("vocab-ask:" + item.Word)
}

func (f *fakeJudge) VocabPraise(ctx context.Context, item *models.VocabItem) (string, error) {
	return f.gen("vocab-praise:" + item.Word)
}

func (f *fakeJudge) VocabFeedback(ctx context.Context, item *models.VocabItem, utterance string, attempt int) (string, error) {
	if attempt == 1 {
		return f.gen("vocab-hint:" + item.Word)
	}
	return f.gen("vocab-reveal:" + item.Meaning)
}

func (f *fakeJudge) QuestionIntro(ctx context.Context, question, studentName, priorLearning string) (string, error) {
	return f.gen(fmt.Sprintf("intro:%s|prior=%s", question, priorLearning))
}

func (f *fakeJudge) ClosedFeedback(ctx context.Context, utterance, canonicalAnswer, question, passage string, attempt int) (string, error) {
	if attempt == 3 {
		return f.gen("closed-reveal:" + canonicalAnswer)
	}
	return f.gen(fmt.Sprintf("closed-hint%d:%s", attempt, question))
}

func (f *fakeJudge) AskWhyCorrect(ctx context.Context, question, utterance, passage string) (string, error) {
	return f.gen("ask-why:" + question)
}

func (f *fakeJudge) RespondToReflection(ctx context.Context, reflection, question, canonicalAnswer, passage string) (string, error) {
	return f.gen("reflection-reply:" + reflection)
}

func (f *fakeJudge) TranslateOpenQuestion(ctx context.Context, question string) (string, error) {
	return f.gen("open-ask:" + question)
}

func (f *fakeJudge) RespondToOpenAnswer(ctx context.Context, utterance, question, objective, canonicalAnswer string) (string, error) {
	return f.gen("open-reply:" + objective)
}

// fakeProgress is an in-memory ProgressStore over one student.
type fakeProgress struct {
	log     *eventLog
	student models.Student
	vocab   map[int][]*models.VocabItem            // day -> ordered items
	closed  map[int]map[int]*models.ClosedQuestion // day -> question id
	open    map[int]map[int]*models.OpenQuestion
}

func newFakeProgress(log *eventLog) *fakeProgress {
	return &fakeProgress{
		log: log,
		student: models.Student{
			ChatID:        42,
			Name:          "Ka Yan",
			DayOfTraining: 1,
			VocabCursor:   0,
			ClosedCursor:  1,
			OpenCursor:    1,
		},
		vocab:  make(map[int][]*models.VocabItem),
		closed: make(map[int]map[int]*models.ClosedQuestion),
		open:   make(map[int]map[int]*models.OpenQuestion),
	}
}

func (f *fakeProgress) addVocab(day int, item *models.VocabItem) {
	item.Day = day
	item.Position = len(f.vocab[day])
	f.vocab[day] = append(f.vocab[day], item)
}

func (f *fakeProgress) addClosed(day, qid int, q *models.ClosedQuestion) {
	if f.closed[day] == nil {
		f.closed[day] = make(map[int]*models.ClosedQuestion)
	}
	q.Day, q.QuestionID = day, qid
	f.closed[day][qid] = q
}

func (f *fakeProgress) addOpen(day, qid int, q *models.OpenQuestion) {
	if f.open[day] == nil {
		f.open[day] = make(map[int]*models.OpenQuestion)
	}
	q.Day, q.QuestionID = day, qid
	f.open[day][qid] = q
}

func (f *fakeProgress) GetStudent(ctx context.Context, id int64) (*models.Student, error) {
	if id != f.student.ChatID {
		return nil, fmt.Errorf("student not found: %d", id)
	}
	s := f.student
	return &s, nil
}

func (f *fakeProgress) CurrentVocabItem(ctx context.Context, student *models.Student) (*models.VocabItem, error) {
	items := f.vocab[student.DayOfTraining]
	if student.VocabCursor >= len(items) {
		return nil, nil
	}
	return items[student.VocabCursor], nil
}

func (f *fakeProgress) CurrentClosedQuestion(ctx context.Context, student *models.Student) (*models.ClosedQuestion, error) {
	return f.closed[student.DayOfTraining][student.ClosedCursor], nil
}

func (f *fakeProgress) CurrentOpenQuestion(ctx context.Context, student *models.Student) (*models.OpenQuestion, error) {
	return f.open[student.DayOfTraining][student.OpenCursor], nil
}

func (f *fakeProgress) AdvanceVocab(ctx context.Context, id int64) error {
	f.student.VocabCursor++
	f.log.add("advance:vocab")
	return nil
}

func (f *fakeProgress) AdvanceClosed(ctx context.Context, id int64) error {
	f.student.ClosedCursor++
	f.log.add("advance:closed")
	return nil
}

func (f *fakeProgress) AdvanceOpen(ctx context.Context, id int64) error {
	f.student.OpenCursor++
	f.log.add("advance:open")
	return nil
}

// fakeNotifier records sends; failing can be toggled to exercise the
// committed-progress-despite-failed-delivery path.
type fakeNotifier struct {
	log        *eventLog
	sent       []string
	lastPrompt string
	failing    bool
}

func (f *fakeNotifier) Send(studentID int64, text string) error {
	f.log.add("send:%s", text)
	if f.failing {
		return fmt.Errorf("delivery failed")
	}
	f.sent = append(f.sent, text)
	f.lastPrompt = text
	return nil
}

func (f *fakeNotifier) LastPrompt(studentID int64) string {
	return f.lastPrompt
}

// recordingStore wraps the real memory store to log mutations.
type recordingStore struct {
	log   *eventLog
	inner *session.MemoryStore
}

func (r *recordingStore) Get(studentID int64, track session.Track) (*session.Session, bool) {
	return r.inner.Get(studentID, track)
}

func (r *recordingStore) Put(studentID int64, track session.Track, s *session.Session) {
	r.log.add("put:%s", track)
	r.inner.Put(studentID, track, s)
}

func (r *recordingStore) Delete(studentID int64, track session.Track) {
	if _, ok := r.inner.Get(studentID, track); ok {
		r.log.add("delete:%s", track)
	}
	r.inner.Delete(studentID, track)
}

// env wires a dispatcher around the fakes for one student (chat id 42).
type env struct {
	log      *eventLog
	judge    *fakeJudge
	progress *fakeProgress
	notify   *fakeNotifier
	store    *recordingStore
	d        *Dispatcher
}

const studentID = int64(42)

func newEnv() *env {
	log := &eventLog{}
	e := &env{
		log:      log,
		judge:    &fakeJudge{},
		progress: newFakeProgress(log),
		notify:   &fakeNotifier{log: log},
		store:    &recordingStore{log: log, inner: session.NewMemoryStore()},
	}
	e.d = New(e.store, e.progress, e.judge, e.notify)
	return e
}

func (e *env) countEvents(event string) int {
	n := 0
	for _, ev := range e.log.events {
		if ev == event {
			n++
		}
	}
	return n
}
