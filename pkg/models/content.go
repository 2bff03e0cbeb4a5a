package models

// VocabItem is one vocabulary entry of a training day.
type VocabItem struct {
	ID           int    `json:"id" db:"id"`
	Day          int    `json:"day" db:"day"`
	Position     int    `json:"position" db:"position"` // 0-based order within the day
	Word         string `json:"word" db:"word"`
	PartOfSpeech string `json:"part_of_speech" db:"part_of_speech"`
	Meaning      string `json:"meaning" db:"meaning"` // canonical Chinese explanation
	Example      string `json:"example" db:"example"`
	Mnemonic     string `json:"mnemonic" db:"mnemonic"`
	Root         string `json:"root" db:"root"`
	Tip          string `json:"tip" db:"tip"`
}

// ClosedQuestion is a closed-ended comprehension question tied to a day's passage.
type ClosedQuestion struct {
	ID         int    `json:"id" db:"id"`
	Day        int    `json:"day" db:"day"`
	QuestionID int    `json:"question_id" db:"question_id"` // 1-based within the day
	Question   string `json:"question_text" db:"question_text"`
	Answer     string `json:"answer_text" db:"answer_text"`
	Passage    string `json:"passage_text" db:"passage_text"`
}

// OpenQuestion is an open-ended reflective question for the warm-up exercise.
type OpenQuestion struct {
	ID         int    `json:"id" db:"id"`
	Day        int    `json:"day" db:"day"`
	QuestionID int    `json:"question_id" db:"question_id"`
	Question   string `json:"question_text" db:"question_text"`
	Answer     string `json:"answer_text" db:"answer_text"`
	Objective  string `json:"learning_objective" db:"learning_objective"`
}
