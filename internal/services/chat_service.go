package services

import (
	"database/sql"
	"errors"

	"drwheels/internal/domain"
	"drwheels/internal/repos"

	"github.com/google/uuid"
)

type ChatService struct {
	Chats *repos.ChatRepo
	Users *repos.UserRepo
}

func NewChatService(chats *repos.ChatRepo, users *repos.UserRepo) *ChatService {
	return &ChatService{Chats: chats, Users: users}
}

type CreateChatInput struct {
	ParticipantID string `json:"participantId" validate:"required"`
}

type SendMessageInput struct {
	Content string `json:"content" validate:"required,max=2000"`
}

// pair returns the participant ids in canonical order for the unique
// (user_a,user_b) constraint.
func pair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

func (s *ChatService) doc(ch domain.Chat) (domain.ChatDoc, error) {
	parts, err := s.Chats.Participants(&ch)
	if err != nil {
		return domain.ChatDoc{}, err
	}
	msgs, err := s.Chats.Messages(ch.ID)
	if err != nil {
		return domain.ChatDoc{}, err
	}
	out := domain.ChatDoc{
		ID:           ch.ID,
		Participants: parts,
		Messages:     make([]domain.MessageDoc, 0, len(msgs)),
		CreatedAt:    ch.CreatedAt,
		UpdatedAt:    ch.UpdatedAt,
	}
	for _, m := range msgs {
		out.Messages = append(out.Messages, domain.MessageDoc{Sender: m.SenderID, Content: m.Content, Timestamp: m.CreatedAt})
	}
	return out, nil
}

func (s *ChatService) isParticipant(ch *domain.Chat, userID string) bool {
	return ch.UserA == userID || ch.UserB == userID
}

// Open returns the existing chat for the pair or creates an empty one.
func (s *ChatService) Open(actor *domain.User, participantID string) (domain.ChatDoc, error) {
	if _, err := s.Users.ByID(participantID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ChatDoc{}, notFound("User not found")
		}
		return domain.ChatDoc{}, err
	}

	a, b := pair(actor.ID, participantID)
	ch, err := s.Chats.ByPair(a, b)
	if errors.Is(err, sql.ErrNoRows) {
		ch = domain.Chat{ID: uuid.NewString(), UserA: a, UserB: b}
		if err := s.Chats.Insert(&ch); err != nil {
			return domain.ChatDoc{}, err
		}
		ch, err = s.Chats.Get(ch.ID)
		if err != nil {
			return domain.ChatDoc{}, err
		}
	} else if err != nil {
		return domain.ChatDoc{}, err
	}
	return s.doc(ch)
}

func (s *ChatService) Get(actor *domain.User, chatID string) (domain.ChatDoc, error) {
	ch, err := s.Chats.Get(chatID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ChatDoc{}, notFound("Chat not found")
		}
		return domain.ChatDoc{}, err
	}
	if !s.isParticipant(&ch, actor.ID) && !actor.IsAdmin() {
		return domain.ChatDoc{}, forbidden()
	}
	return s.doc(ch)
}

func (s *ChatService) ListForUser(userID string) ([]domain.ChatDoc, error) {
	chats, err := s.Chats.ListForUser(userID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ChatDoc, 0, len(chats))
	for _, ch := range chats {
		doc, err := s.doc(ch)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

// Send appends to the chat's message list; messages are never edited or
// removed.
func (s *ChatService) Send(actor *domain.User, chatID, content string) (domain.ChatDoc, error) {
	ch, err := s.Chats.Get(chatID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ChatDoc{}, notFound("Chat not found")
		}
		return domain.ChatDoc{}, err
	}
	if !s.isParticipant(&ch, actor.ID) {
		return domain.ChatDoc{}, forbidden()
	}

	msg := &domain.Message{ID: uuid.NewString(), ChatID: chatID, SenderID: actor.ID, Content: content}
	if err := s.Chats.AppendMessage(msg); err != nil {
		return domain.ChatDoc{}, err
	}
	ch, err = s.Chats.Get(chatID)
	if err != nil {
		return domain.ChatDoc{}, err
	}
	return s.doc(ch)
}
