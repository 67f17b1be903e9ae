package handlers

import (
	applog "drwheels/internal/log"
	"drwheels/internal/services"
	"drwheels/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type FavoriteHandler struct {
	Favorites *services.FavoriteService
}

// POST /api/favorites
func (h *FavoriteHandler) Add(c *fiber.Ctx) error {
	var req services.AddFavoriteInput
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

	fav, err := h.Favorites.Add(currentUser(c).ID, carID)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "favorite.add", map[string]any{"car_id": carID})
	return c.Status(fiber.StatusCreated).JSON(fav)
}

// DELETE /api/favorites/:carId
func (h *FavoriteHandler) Remove(c *fiber.Ctx) error {
	carID, ok := validate.ID(c.Params("carId"))
	if !ok {
		return badRequest(c, "Invalid car ID")
	}
	if err := h.Favorites.Remove(currentUser(c).ID, carID); err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "favorite.remove", map[string]any{"car_id": carID})
	return c.JSON(fiber.Map{"message": "Favorite removed successfully"})
}

// GET /api/favorites
func (h *FavoriteHandler) List(c *fiber.Ctx) error {
	cars, err := h.Favorites.List(currentUser(c).ID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(cars)
}

// GET /api/favorites/check/:carId
func (h *FavoriteHandler) Check(c *fiber.Ctx) error {
	carID, ok := validate.ID(c.Params("carId"))
	if !ok {
		return badRequest(c, "Invalid car ID")
	}
	isFav, err := h.Favorites.Check(currentUser(c).ID, carID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"isFavorite": isFav})
}
