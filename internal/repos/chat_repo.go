package repos

import (
	"drwheels/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ChatRepo struct{ db *sqlx.DB }

func NewChatRepo(db *sqlx.DB) *ChatRepo { return &ChatRepo{db: db} }

// ByPair looks up the chat for a participant pair. Callers must pass the
// pair in canonical (sorted) order; the unique index relies on it.
func (r *ChatRepo) ByPair(userA, userB string) (domain.Chat, error) {
	var ch domain.Chat
	err := r.db.Get(&ch, `
	  SELECT id, user_a, user_b, created_at, COALESCE(updated_at,'') AS updated_at
	  FROM chats WHERE user_a=? AND user_b=?`, userA, userB)
	return ch, err
}

func (r *ChatRepo) Get(id string) (domain.Chat, error) {
	var ch domain.Chat
	err := r.db.Get(&ch, `
	  SELECT id, user_a, user_b, created_at, COALESCE(updated_at,'') AS updated_at
	  FROM chats WHERE id=?`, id)
	return ch, err
}

func (r *ChatRepo) Insert(ch *domain.Chat) error {
	_, err := r.db.Exec(`INSERT INTO chats(id,user_a,user_b) VALUES(?,?,?)`,
		ch.ID, ch.UserA, ch.UserB)
	return err
}

// ListForUser returns the user's chats, most recent activity first.
func (r *ChatRepo) ListForUser(userID string) ([]domain.Chat, error) {
	var out []domain.Chat
	err := r.db.Select(&out, `
	  SELECT id, user_a, user_b, created_at, COALESCE(updated_at,'') AS updated_at
	  FROM chats
	  WHERE user_a=? OR user_b=?
	  ORDER BY datetime(COALESCE(updated_at, created_at)) DESC`, userID, userID)
	return out, err
}

func (r *ChatRepo) AppendMessage(m *domain.Message) error {
	if _, err := r.db.Exec(`
	  INSERT INTO chat_messages(id,chat_id,sender_id,content) VALUES(?,?,?,?)
	`, m.ID, m.ChatID, m.SenderID, m.Content); err != nil {
		return err
	}
	_, err := r.db.Exec(`UPDATE chats SET updated_at=CURRENT_TIMESTAMP WHERE id=?`, m.ChatID)
	return err
}

func (r *ChatRepo) Messages(chatID string) ([]domain.Message, error) {
	var out []domain.Message
	err := r.db.Select(&out, `
	  SELECT id, chat_id, sender_id, content, created_at
	  FROM chat_messages
	  WHERE chat_id=?
	  ORDER BY datetime(created_at) ASC, id ASC`, chatID)
	return out, err
}

func (r *ChatRepo) Participants(ch *domain.Chat) ([]domain.UserRef, error) {
	var out []domain.UserRef
	err := r.db.Select(&out, `
	  SELECT id, name, email FROM users WHERE id IN (?, ?)`, ch.UserA, ch.UserB)
	return out, err
}
