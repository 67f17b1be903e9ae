package handlers

import (
	"strings"

	applog "drwheels/internal/log"
	"drwheels/internal/repos"
	"drwheels/internal/services"
	"drwheels/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CarHandler struct {
	Cars *services.CarService
}

var listSortFields = map[string]bool{
	"createdAt": true, "price": true, "year": true, "mileage": true, "averageRating": true,
}

// GET /api/cars
func (h *CarHandler) List(c *fiber.Ctx) error {
	f := repos.NewCarFilter()
	var details []validate.FieldError

	f.Search = strings.TrimSpace(c.Query("search"))
	f.Make = strings.TrimSpace(c.Query("make"))
	f.Model = strings.TrimSpace(c.Query("model"))
	f.Color = strings.TrimSpace(c.Query("color"))

	intParam := func(name string) int {
		v, present, ok := validate.IntFilter(c.Query(name))
		if !ok {
			details = append(details, validate.FieldError{Field: name, Message: name + " must be a number"})
		}
		if present && ok {
			return v
		}
		return -1
	}
	floatParam := func(name string) float64 {
		v, present, ok := validate.FloatFilter(c.Query(name))
		if !ok {
			details = append(details, validate.FieldError{Field: name, Message: name + " must be a number"})
		}
		if present && ok {
			return v
		}
		return -1
	}

	f.Year = intParam("year")
	f.MinYear = intParam("minYear")
	f.MaxYear = intParam("maxYear")
	f.MinMileage = intParam("minMileage")
	f.MaxMileage = intParam("maxMileage")
	f.MinPrice = floatParam("minPrice")
	f.MaxPrice = floatParam("maxPrice")

	if sb := strings.TrimSpace(c.Query("sortBy")); sb != "" && !listSortFields[sb] {
		details = append(details, validate.FieldError{Field: "sortBy", Message: "Invalid sort field"})
	}
	if so := strings.TrimSpace(c.Query("sortOrder")); so != "" && so != "asc" && so != "desc" {
		details = append(details, validate.FieldError{Field: "sortOrder", Message: "Sort order must be asc or desc"})
	}
	if details != nil {
		return validationFailed(c, details)
	}

	f.SortColumn = validate.SortBy(c.Query("sortBy"))
	f.SortDir = validate.SortOrder(c.Query("sortOrder"))
	f.Limit = validate.Limit(c.Query("limit"))
	page := validate.Page(c.Query("page"))

	cars, pagination, err := h.Cars.List(f, page)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"cars": cars, "pagination": pagination})
}

// GET /api/cars/:id
func (h *CarHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "Invalid car ID")
	}
	car, err := h.Cars.Get(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(car)
}

// POST /api/cars
func (h *CarHandler) Create(c *fiber.Ctx) error {
	var req services.CreateCarInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if details := validate.Struct(req); details != nil {
		return validationFailed(c, details)
	}
	req.Make = strings.TrimSpace(req.Make)
	req.Model = strings.TrimSpace(req.Model)
	req.Color = validate.Escape(req.Color)
	req.Description = validate.Escape(req.Description)

	car, err := h.Cars.Create(currentUser(c).ID, req)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "car.create", map[string]any{"car_id": car.ID})
	return c.Status(fiber.StatusCreated).JSON(car)
}

// PUT /api/cars/:id
func (h *CarHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "Invalid car ID")
	}
	var req services.UpdateCarInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if details := validate.Struct(req); details != nil {
		return validationFailed(c, details)
	}
	if req.Color != nil {
		v := validate.Escape(*req.Color)
		req.Color = &v
	}
	if req.Description != nil {
		v := validate.Escape(*req.Description)
		req.Description = &v
	}

	car, err := h.Cars.Update(currentUser(c), id, req)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "car.update", map[string]any{"car_id": id})
	return c.JSON(car)
}

// DELETE /api/cars/:id
func (h *CarHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "Invalid car ID")
	}
	if err := h.Cars.Delete(currentUser(c), id); err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "car.delete", map[string]any{"car_id": id})
	return c.JSON(fiber.Map{"message": "Car deleted successfully"})
}

// GET /api/cars/my-cars
func (h *CarHandler) MyCars(c *fiber.Ctx) error {
	cars, err := h.Cars.MyCars(currentUser(c).ID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(cars)
}
