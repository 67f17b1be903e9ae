package handlers

import (
	applog "drwheels/internal/log"
	"drwheels/internal/services"
	"drwheels/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	Orders *services.OrderService
}

// POST /api/orders
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var req services.CreateOrderInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if details := validate.Struct(req); details != nil {
		return validationFailed(c, details)
	}
	carID, ok := validate.ID(req.CarID)
	if !ok {
		return badRequest(c, "Invalid car ID")
	}

	order, err := h.Orders.Create(currentUser(c), carID, validate.Escape(req.Notes))
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "order.create", map[string]any{"order_id": order.ID, "car_id": carID})
	return c.Status(fiber.StatusCreated).JSON(order)
}

// GET /api/orders?type=buyer|seller
func (h *OrderHandler) List(c *fiber.Ctx) error {
	orders, err := h.Orders.List(currentUser(c).ID, c.Query("type"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(orders)
}

// GET /api/orders/:id
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "Invalid order ID")
	}
	order, err := h.Orders.Get(currentUser(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(order)
}

// PUT /api/orders/:orderId/status
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("orderId"))
	if !ok {
		return badRequest(c, "Invalid order ID")
	}
	var req services.UpdateOrderStatusInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if details := validate.Struct(req); details != nil {
		return validationFailed(c, details)
	}

	order, err := h.Orders.UpdateStatus(currentUser(c), id, req)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "order.status", map[string]any{"order_id": id, "status": order.Status, "payment_status": order.PaymentStatus})
	return c.JSON(order)
}

// POST /api/orders/:orderId/cancel
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("orderId"))
	if !ok {
		return badRequest(c, "Invalid order ID")
	}
	if err := h.Orders.Cancel(currentUser(c), id); err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "order.cancel", map[string]any{"order_id": id})
	return c.JSON(fiber.Map{"message": "Order cancelled successfully"})
}
