package instanceapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mensajero-app/mensajero/pkg/iam/auth"
	"github.com/mensajero-app/mensajero/pkg/kernel"
	"github.com/mensajero-app/mensajero/pkg/messaging/instance"
	"github.com/mensajero-app/mensajero/pkg/messaging/instance/instancesrv"
)

type InstanceHandlers struct {
	svc *instancesrv.InstanceService
}

func NewInstanceHandlers(svc *instancesrv.InstanceService) *InstanceHandlers {
	return &InstanceHandlers{svc: svc}
}

// RegisterRoutes mounts the instance CRUD under the access-token gate.
func (h *InstanceHandlers) RegisterRoutes(app *fiber.App, guard *auth.Guard) {
	g := app.Group("/api/v1/instances", guard.Protect())
	g.Post("/", h.create)
	g.Get("/", h.list)
	g.Get("/:id", h.get)
	g.Patch("/:id", h.update)
	g.Delete("/:id", h.delete)
}

func (h *InstanceHandlers) create(c *fiber.Ctx) error {
	identity := auth.FromFiber(c)

	var in instancesrv.CreateInput
	if err := c.BodyParser(&in); err != nil {
		return instance.ErrInvalidInput("invalid request body")
	}

	inst, err := h.svc.Create(c.Context(), identity.UserID, identity.TenantID, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(inst)
}

func (h *InstanceHandlers) list(c *fiber.Ctx) error {
	identity := auth.FromFiber(c)
	instances, err := h.svc.List(c.Context(), identity.UserID)
	if err != nil {
		return err
	}
	return c.JSON(instances)
}

func (h *InstanceHandlers) get(c *fiber.Ctx) error {
	identity := auth.FromFiber(c)
	inst, err := h.svc.Get(c.Context(), identity.UserID, kernel.NewInstanceID(c.Params("id")))
	if err != nil {
		return err
	}
	return c.JSON(inst)
}

func (h *InstanceHandlers) update(c *fiber.Ctx) error {
	identity := auth.FromFiber(c)

	var in instancesrv.UpdateInput
	if err := c.BodyParser(&in); err != nil {
		return instance.ErrInvalidInput("invalid request body")
	}

	inst, err := h.svc.Update(c.Context(), identity.UserID, kernel.NewInstanceID(c.Params("id")), in)
	if err != nil {
		return err
	}
	return c.JSON(inst)
}

func (h *InstanceHandlers) delete(c *fiber.Ctx) error {
	identity := auth.FromFiber(c)
	if err := h.svc.Delete(c.Context(), identity.UserID, kernel.NewInstanceID(c.Params("id"))); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}
