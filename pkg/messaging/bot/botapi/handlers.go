package botapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mensajero-app/mensajero/pkg/iam/auth"
	"github.com/mensajero-app/mensajero/pkg/kernel"
	"github.com/mensajero-app/mensajero/pkg/messaging/bot"
	"github.com/mensajero-app/mensajero/pkg/messaging/bot/botsrv"
)

type BotHandlers struct {
	svc *botsrv.BotService
}

func NewBotHandlers(svc *botsrv.BotService) *BotHandlers {
	return &BotHandlers{svc: svc}
}

func (h *BotHandlers) RegisterRoutes(app *fiber.App, guard *auth.Guard) {
	g := app.Group("/api/v1/bots", guard.Protect())
	g.Post("/", h.create)
	g.Get("/", h.list)
	g.Get("/:id", h.get)
	g.Patch("/:id", h.update)
	g.Delete("/:id", h.delete)
	g.Post("/:id/reply", h.reply)
}

func (h *BotHandlers) create(c *fiber.Ctx) error {
	identity := auth.FromFiber(c)

	var in botsrv.CreateInput
	if err := c.BodyParser(&in); err != nil {
		return bot.ErrInvalidInput("invalid request body")
	}

	b, err := h.svc.Create(c.Context(), identity.UserID, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(b)
}

func (h *BotHandlers) list(c *fiber.Ctx) error {
	identity := auth.FromFiber(c)
	bots, err := h.svc.List(c.Context(), identity.UserID)
	if err != nil {
		return err
	}
	return c.JSON(bots)
}

func (h *BotHandlers) get(c *fiber.Ctx) error {
	identity := auth.FromFiber(c)
	b, err := h.svc.Get(c.Context(), identity.UserID, kernel.NewBotID(c.Params("id")))
	if err != nil {
		return err
	}
	return c.JSON(b)
}

func (h *BotHandlers) update(c *fiber.Ctx) error {
	identity := auth.FromFiber(c)

	var in botsrv.UpdateInput
	if err := c.BodyParser(&in); err != nil {
		return bot.ErrInvalidInput("invalid request body")
	}

	b, err := h.svc.Update(c.Context(), identity.UserID, kernel.NewBotID(c.Params("id")), in)
	if err != nil {
		return err
	}
	return c.JSON(b)
}

func (h *BotHandlers) delete(c *fiber.Ctx) error {
	identity := auth.FromFiber(c)
	if err := h.svc.Delete(c.Context(), identity.UserID, kernel.NewBotID(c.Params("id"))); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

type replyInput struct {
	InstanceID string `json:"instance_id"`
	Contact    string `json:"contact"`
	Message    string `json:"message"`
}

func (h *BotHandlers) reply(c *fiber.Ctx) error {
	identity := auth.FromFiber(c)

	var in replyInput
	if err := c.BodyParser(&in); err != nil {
		return bot.ErrInvalidInput("invalid request body")
	}

	msg, err := h.svc.Reply(c.Context(), identity.UserID, kernel.NewBotID(c.Params("id")),
		kernel.NewInstanceID(in.InstanceID), in.Contact, in.Message)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}
