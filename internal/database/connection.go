package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DB is the global database connection
var DB *sqlx.DB

// Connect establishes the database connection. When DATABASE_URL is set it
// connects to PostgreSQL; otherwise it opens a local SQLite file.
func Connect() error {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		db, err := sqlx.Connect("postgres", url)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %v", err)
		}
		DB = db
		// postgres schema is managed by migrations outside the process
		return nil
	}

	dataDir := "data"
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %v", err)
	}

	dbPath := filepath.Join(dataDir, "growtalk.db")
	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %v", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %v", err)
	}

	// SQLite doesn't support multiple writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	DB = db
	return initializeSchema(db)
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema(db *sqlx.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS students (
			chat_id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			day_of_training INTEGER DEFAULT 1,
			vocab_cursor INTEGER DEFAULT 0,
			closed_cursor INTEGER DEFAULT 1,
			open_cursor INTEGER DEFAULT 1,
			notification_enabled BOOLEAN DEFAULT true,
			notification_hour INTEGER DEFAULT 9,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS vocab_items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			day INTEGER NOT NULL,
			position INTEGER NOT NULL,
			word TEXT NOT NULL,
			part_of_speech TEXT DEFAULT '',
			meaning TEXT NOT NULL,
			example TEXT DEFAULT '',
			mnemonic TEXT DEFAULT '',
			root TEXT DEFAULT '',
			tip TEXT DEFAULT '',
			UNIQUE(day, position)
		)`,
		`CREATE TABLE IF NOT EXISTS passages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			day INTEGER NOT NULL UNIQUE,
			passage_text TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS closed_questions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			day INTEGER NOT NULL,
			question_id INTEGER NOT NULL,
			question_text TEXT NOT NULL,
			answer_text TEXT NOT NULL,
			UNIQUE(day, question_id)
		)`,
		`CREATE TABLE IF NOT EXISTS open_questions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			day INTEGER NOT NULL,
			question_id INTEGER NOT NULL,
			question_text TEXT NOT NULL,
			answer_text TEXT DEFAULT '',
			learning_objective TEXT DEFAULT '',
			UNIQUE(day, question_id)
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %v", err)
		}
	}
	return nil
}
