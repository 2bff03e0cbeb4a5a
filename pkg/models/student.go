package models

// Student represents a learner enrolled in the daily training programme.
// ChatID is the opaque stable identity used everywhere in the system.
type Student struct {
	ChatID              int64  `json:"chat_id" db:"chat_id"`
	Name                string `json:"name" db:"name"`
	DayOfTraining       int    `json:"day_of_training" db:"day_of_training"`
	VocabCursor         int    `json:"vocab_cursor" db:"vocab_cursor"`   // 0-based position within the day's word list
	ClosedCursor        int    `json:"closed_cursor" db:"closed_cursor"` // 1-based question id
	OpenCursor          int    `json:"open_cursor" db:"open_cursor"`     // 1-based question id
	NotificationEnabled bool   `json:"notification_enabled" db:"notification_enabled"`
	NotificationHour    int    `json:"notification_hour" db:"notification_hour"` // Hour of day for the morning greeting (0-23)
	CreatedAt           string `json:"created_at" db:"created_at"`
	UpdatedAt           string `json:"updated_at" db:"updated_at"`
}
