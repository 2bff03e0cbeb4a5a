package session

import (
	"sync"

	"github.com/example/growtalk/pkg/models"
)

// Track identifies one of the three parallel learning flows.
type Track string

const (
	TrackVocab  Track = "vocab"
	TrackClosed Track = "closed"
	TrackOpen   Track = "open"
)

// Mode is the sub-state of a closed-reading session.
type Mode string

const (
	ModeNormal     Mode = ""
	ModeReflection Mode = "reflection"
)

// Session is the transient working state of one in-progress item for one
// (student, track) pair. Only the fields of the owning track are populated.
type Session struct {
	Track      Track
	Attempt    int
	Mode       Mode
	LastAnswer string

	// vocab track
	Vocab *models.VocabItem

	// closed track
	Passage  string
	Question string
	Answer   string

	// open track
	Open *models.OpenQuestion
}

// Store holds the transient sessions of the orchestrator. A session exists for
// a (student, track) pair exactly while that track is in progress; absence
// means not started or just completed.
type Store interface {
	Get(studentID int64, track Track) (*Session, bool)
	Put(studentID int64, track Track, s *Session)
	Delete(studentID int64, track Track)
}

type key struct {
	student int64
	track   Track
}

// MemoryStore is the volatile in-process Store. State is scoped to the
// process lifetime.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[key]*Session
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[key]*Session)}
}

// Get returns the session for the pair, if any.
func (m *MemoryStore) Get(studentID int64, track Track) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[key{studentID, track}]
	return s, ok
}

// Put stores the session for the pair, replacing any existing one.
func (m *MemoryStore) Put(studentID int64, track Track, s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[key{studentID, track}] = s
}

// Delete removes the session for the pair if present.
func (m *MemoryStore) Delete(studentID int64, track Track) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, key{studentID, track})
}
