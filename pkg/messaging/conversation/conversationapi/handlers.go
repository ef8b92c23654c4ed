package conversationapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mensajero-app/mensajero/pkg/iam/auth"
	"github.com/mensajero-app/mensajero/pkg/kernel"
	"github.com/mensajero-app/mensajero/pkg/messaging/conversation"
	"github.com/mensajero-app/mensajero/pkg/messaging/conversation/conversationsrv"
)

type ConversationHandlers struct {
	svc *conversationsrv.ConversationService
}

func NewConversationHandlers(svc *conversationsrv.ConversationService) *ConversationHandlers {
	return &ConversationHandlers{svc: svc}
}

func (h *ConversationHandlers) RegisterRoutes(app *fiber.App, guard *auth.Guard) {
	g := app.Group("/api/v1", guard.Protect())
	g.Get("/instances/:id/conversations", h.list)
	g.Post("/instances/:id/messages", h.record)
	g.Get("/conversations/:id/messages", h.history)
}

type recordInput struct {
	Contact   string `json:"contact"`
	Direction string `json:"direction"`
	Body      string `json:"body"`
}

func (h *ConversationHandlers) record(c *fiber.Ctx) error {
	identity := auth.FromFiber(c)

	var in recordInput
	if err := c.BodyParser(&in); err != nil {
		return conversation.ErrInvalidInput("invalid request body")
	}

	direction := conversation.Direction(in.Direction)
	if direction != conversation.DirectionInbound && direction != conversation.DirectionOutbound {
		return conversation.ErrInvalidInput("direction must be inbound or outbound")
	}

	msg, err := h.svc.Record(c.Context(), identity.UserID, kernel.NewInstanceID(c.Params("id")), in.Contact, direction, in.Body)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

func (h *ConversationHandlers) list(c *fiber.Ctx) error {
	identity := auth.FromFiber(c)

	convs, err := h.svc.List(c.Context(), identity.UserID, kernel.NewInstanceID(c.Params("id")),
		c.QueryInt("limit", 0), c.QueryInt("offset", 0))
	if err != nil {
		return err
	}
	return c.JSON(convs)
}

func (h *ConversationHandlers) history(c *fiber.Ctx) error {
	identity := auth.FromFiber(c)

	msgs, err := h.svc.History(c.Context(), identity.UserID, kernel.NewConversationID(c.Params("id")),
		c.QueryInt("limit", 0), c.QueryInt("offset", 0))
	if err != nil {
		return err
	}
	return c.JSON(msgs)
}
