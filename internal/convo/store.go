package convo

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/arlunn/munin/internal/apperr"
)

// Message is one chat message in a conversation.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation is a full transcript.
type Conversation struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	LastUpdated time.Time `json:"last_updated"`
	Messages    []Message `json:"messages"`
}

// Summary is the list-view projection of a conversation.
type Summary struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	LastUpdated  time.Time `json:"last_updated"`
	MessageCount int       `json:"message_count"`
	Preview      string    `json:"preview"`
}

// Append records a user/assistant exchange, creating the conversation on
// first write. A new conversation is titled from the first 50 characters of
// the user message.
func (db *DB) Append(id, userMessage, assistantMessage string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("convo: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	now := time.Now().UTC()
	title := userMessage
	if len(title) > 50 {
		title = title[:50] + "..."
	}

	_, err = tx.Exec(`
		INSERT INTO conversations (id, title, last_updated)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET last_updated = excluded.last_updated
	`, id, title, now)
	if err != nil {
		return fmt.Errorf("convo: upsert conversation: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO messages (conversation_id, role, content, created_at) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("convo: prepare message insert: %w", err)
	}
	defer stmt.Close()
	if _, err := stmt.Exec(id, "user", userMessage, now); err != nil {
		return fmt.Errorf("convo: insert user message: %w", err)
	}
	if _, err := stmt.Exec(id, "assistant", assistantMessage, now); err != nil {
		return fmt.Errorf("convo: insert assistant message: %w", err)
	}

	return tx.Commit()
}

// Get returns the full transcript for a conversation.
func (db *DB) Get(id string) (*Conversation, error) {
	c := &Conversation{ID: id, Messages: []Message{}}
	err := db.conn.QueryRow(`SELECT title, last_updated FROM conversations WHERE id = ?`, id).
		Scan(&c.Title, &c.LastUpdated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("convo: get conversation: %w", err)
	}

	rows, err := db.conn.Query(`
		SELECT role, content, created_at FROM messages
		WHERE conversation_id = ? ORDER BY id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("convo: get messages: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.Role, &m.Content, &m.Timestamp); err != nil {
			return nil, err
		}
		c.Messages = append(c.Messages, m)
	}
	return c, rows.Err()
}

// List returns every conversation, newest first, with a message count and a
// preview of the first message.
func (db *DB) List() ([]Summary, error) {
	rows, err := db.conn.Query(`
		SELECT c.id, c.title, c.last_updated,
		       COUNT(m.id),
		       COALESCE((SELECT content FROM messages WHERE conversation_id = c.id ORDER BY id LIMIT 1), '')
		FROM conversations c
		LEFT JOIN messages m ON m.conversation_id = c.id
		GROUP BY c.id
		ORDER BY c.last_updated DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("convo: list: %w", err)
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.Title, &s.LastUpdated, &s.MessageCount, &s.Preview); err != nil {
			return nil, err
		}
		if len(s.Preview) > 100 {
			s.Preview = s.Preview[:100]
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Delete removes a conversation and its messages.
func (db *DB) Delete(id string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("convo: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.Exec(`DELETE FROM conversations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("convo: delete conversation: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	if _, err := tx.Exec(`DELETE FROM messages WHERE conversation_id = ?`, id); err != nil {
		return fmt.Errorf("convo: delete messages: %w", err)
	}
	return tx.Commit()
}
