package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Open opens a SQLite database with the given DSN.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return db, nil
}

// Migrate applies the schema. Statements are idempotent.
func Migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY,
			username VARCHAR(50) UNIQUE NOT NULL,
			email VARCHAR(100) UNIQUE,
			hashed_password VARCHAR(255) NOT NULL,
			is_active BOOLEAN DEFAULT TRUE,
			is_suspended BOOLEAN DEFAULT FALSE,
			is_admin BOOLEAN DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL
		);`,
		// The unique (low, high) pair key is what makes get-or-create safe
		// under concurrent first contact.
		`CREATE TABLE IF NOT EXISTS conversations (
			id INTEGER PRIMARY KEY,
			user_low_id INTEGER NOT NULL,
			user_high_id INTEGER NOT NULL,
			last_message_at TIMESTAMP NOT NULL,
			created_at TIMESTAMP NOT NULL,
			UNIQUE (user_low_id, user_high_id),
			FOREIGN KEY (user_low_id) REFERENCES users(id),
			FOREIGN KEY (user_high_id) REFERENCES users(id)
		);`,
		`CREATE TABLE IF NOT EXISTS messages (
			id INTEGER PRIMARY KEY,
			conversation_id INTEGER NOT NULL,
			sender_id INTEGER NOT NULL,
			content TEXT NOT NULL,
			file_url TEXT DEFAULT NULL,
			file_name TEXT DEFAULT NULL,
			file_mime TEXT DEFAULT NULL,
			is_read BOOLEAN DEFAULT 0,
			created_at TIMESTAMP NOT NULL,
			FOREIGN KEY (conversation_id) REFERENCES conversations(id),
			FOREIGN KEY (sender_id) REFERENCES users(id)
		);`,
		`CREATE TABLE IF NOT EXISTS message_reactions (
			id INTEGER PRIMARY KEY,
			message_id INTEGER NOT NULL,
			user_id INTEGER NOT NULL,
			emoji VARCHAR(10) NOT NULL,
			created_at TIMESTAMP NOT NULL,
			UNIQUE (message_id, user_id, emoji),
			FOREIGN KEY (message_id) REFERENCES messages(id),
			FOREIGN KEY (user_id) REFERENCES users(id)
		);`,
		`CREATE TABLE IF NOT EXISTS read_receipts (
			conversation_id INTEGER NOT NULL,
			user_id INTEGER NOT NULL,
			last_read_message_id INTEGER NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			PRIMARY KEY (conversation_id, user_id),
			FOREIGN KEY (conversation_id) REFERENCES conversations(id),
			FOREIGN KEY (user_id) REFERENCES users(id)
		);`,
		`CREATE TABLE IF NOT EXISTS presence (
			user_id INTEGER PRIMARY KEY,
			status VARCHAR(10) NOT NULL,
			last_seen_at TIMESTAMP NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users(id)
		);`,
		`CREATE TABLE IF NOT EXISTS notifications (
			id INTEGER PRIMARY KEY,
			user_id INTEGER NOT NULL,
			type VARCHAR(50) NOT NULL,
			category VARCHAR(50) NOT NULL,
			priority VARCHAR(10) NOT NULL,
			entity_id INTEGER DEFAULT NULL,
			actor_id INTEGER DEFAULT NULL,
			payload TEXT DEFAULT NULL,
			read_at TIMESTAMP DEFAULT NULL,
			dismissed_at TIMESTAMP DEFAULT NULL,
			created_at TIMESTAMP NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users(id)
		);`,
		`CREATE TABLE IF NOT EXISTS notification_preferences (
			id INTEGER PRIMARY KEY,
			user_id INTEGER NOT NULL,
			category VARCHAR(50) NOT NULL,
			subcategory VARCHAR(50) NOT NULL,
			in_app_enabled BOOLEAN DEFAULT 1,
			email_enabled BOOLEAN DEFAULT 0,
			email_frequency VARCHAR(10) DEFAULT 'instant',
			updated_at TIMESTAMP NOT NULL,
			UNIQUE (user_id, category, subcategory),
			FOREIGN KEY (user_id) REFERENCES users(id)
		);`,
		`CREATE TABLE IF NOT EXISTS user_category_interests (
			id INTEGER PRIMARY KEY,
			user_id INTEGER NOT NULL,
			category_type VARCHAR(50) NOT NULL,
			category_value VARCHAR(100) NOT NULL,
			UNIQUE (user_id, category_type, category_value),
			FOREIGN KEY (user_id) REFERENCES users(id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_users_username ON users(username);`,
		`CREATE INDEX IF NOT EXISTS idx_conversations_low ON conversations(user_low_id);`,
		`CREATE INDEX IF NOT EXISTS idx_conversations_high ON conversations(user_high_id);`,
		`CREATE INDEX IF NOT EXISTS idx_conversations_last_message ON conversations(last_message_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_messages_conv_created ON messages(conversation_id, created_at ASC);`,
		`CREATE INDEX IF NOT EXISTS idx_messages_sender ON messages(sender_id);`,
		`CREATE INDEX IF NOT EXISTS idx_reactions_message ON message_reactions(message_id);`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_user_created ON notifications(user_id, created_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_interests_match ON user_category_interests(category_type, category_value);`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	return nil
}
