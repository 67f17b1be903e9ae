package handlers

import (
	applog "drwheels/internal/log"
	"drwheels/internal/services"
	"drwheels/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ReviewHandler struct {
	Reviews *services.ReviewService
}

// POST /api/reviews/car/:carId
func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	carID, ok := validate.ID(c.Params("carId"))
	if !ok {
		return badRequest(c, "Invalid car ID")
	}
	var req services.CreateReviewInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if details := validate.Struct(req); details != nil {
		return validationFailed(c, details)
	}
	req.Comment = validate.Escape(req.Comment)

	review, err := h.Reviews.Create(currentUser(c), carID, req)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "review.create", map[string]any{"car_id": carID, "rating": req.Rating})
	return c.Status(fiber.StatusCreated).JSON(review)
}

// PUT /api/reviews/:reviewId
func (h *ReviewHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("reviewId"))
	if !ok {
		return badRequest(c, "Invalid review ID")
	}
	var req services.UpdateReviewInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if details := validate.Struct(req); details != nil {
		return validationFailed(c, details)
	}
	if req.Comment != nil {
		v := validate.Escape(*req.Comment)
		req.Comment = &v
	}

	review, err := h.Reviews.Update(currentUser(c), id, req)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "review.update", map[string]any{"review_id": id})
	return c.JSON(review)
}

// DELETE /api/reviews/:reviewId
func (h *ReviewHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("reviewId"))
	if !ok {
		return badRequest(c, "Invalid review ID")
	}
	if err := h.Reviews.Delete(currentUser(c), id); err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "review.delete", map[string]any{"review_id": id})
	return c.JSON(fiber.Map{"message": "Review deleted successfully"})
}

// GET /api/reviews/car/:carId
func (h *ReviewHandler) ListByCar(c *fiber.Ctx) error {
	carID, ok := validate.ID(c.Params("carId"))
	if !ok {
		return badRequest(c, "Invalid car ID")
	}
	reviews, err := h.Reviews.ListByCar(carID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(reviews)
}

// GET /api/reviews/user
func (h *ReviewHandler) ListMine(c *fiber.Ctx) error {
	reviews, err := h.Reviews.ListByUser(currentUser(c).ID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(reviews)
}
