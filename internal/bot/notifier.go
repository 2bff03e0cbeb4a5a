package bot

import (
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier delivers tutoring messages over Telegram and remembers the last
// text sent to each student. The dispatcher reads that last prompt back to
// interpret replies arriving outside any active session.
type Notifier struct {
	api *tgbotapi.BotAPI

	mu          sync.RWMutex
	lastPrompts map[int64]string
}

// NewNotifier creates a notifier over an authorized bot API.
func NewNotifier(api *tgbotapi.BotAPI) *Notifier {
	return &Notifier{
		api:         api,
		lastPrompts: make(map[int64]string),
	}
}

// Send delivers one message to the student's chat. The text is recorded as
// the student's last prompt before the delivery attempt, so a failed send
// still counts as the prompt in play.
func (n *Notifier) Send(studentID int64, text string) error {
	n.mu.Lock()
	n.lastPrompts[studentID] = text
	n.mu.Unlock()

	msg := tgbotapi.NewMessage(studentID, text)
	_, err := n.api.Send(msg)
	return err
}

// LastPrompt returns the most recent text sent to the student, or "" if
// nothing has been sent this process lifetime.
func (n *Notifier) LastPrompt(studentID int64) string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.lastPrompts[studentID]
}
