package handlers

import (
	applog "drwheels/internal/log"
	"drwheels/internal/services"
	"drwheels/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ChatHandler struct {
	Chats *services.ChatService
}

// GET /api/chat
func (h *ChatHandler) List(c *fiber.Ctx) error {
	chats, err := h.Chats.ListForUser(currentUser(c).ID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(chats)
}

// GET /api/chat/:id
func (h *ChatHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "Invalid chat ID")
	}
	chat, err := h.Chats.Get(currentUser(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(chat)
}

// POST /api/chat — opens (or returns) the chat with another user.
func (h *ChatHandler) Create(c *fiber.Ctx) error {
	var req services.CreateChatInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if details := validate.Struct(req); details != nil {
		return validationFailed(c, details)
	}
	participantID, ok := validate.ID(req.ParticipantID)
	if !ok {
		return badRequest(c, "Invalid participant ID")
	}

	chat, err := h.Chats.Open(currentUser(c), participantID)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "chat.open", map[string]any{"chat_id": chat.ID})
	return c.Status(fiber.StatusCreated).JSON(chat)
}

// POST /api/chat/:id/messages
func (h *ChatHandler) Send(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "Invalid chat ID")
	}
	var req services.SendMessageInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if details := validate.Struct(req); details != nil {
		return validationFailed(c, details)
	}

	chat, err := h.Chats.Send(currentUser(c), id, validate.Escape(req.Content))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(chat)
}
