package handlers

import (
	applog "drwheels/internal/log"
	"drwheels/internal/services"
	"drwheels/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// POST /api/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	details := validate.Struct(req)
	if !validate.Password(req.Password) {
		details = append(details, validate.FieldError{
			Field:   "password",
			Message: "Password must be at least 8 characters and contain at least one uppercase letter, one lowercase letter, one number, and one special character",
		})
	}
	name, ok := validate.PersonName(req.Name)
	if !ok {
		details = append(details, validate.FieldError{
			Field:   "name",
			Message: "Name must be between 2 and 50 characters and contain only letters and spaces",
		})
	}
	if len(details) > 0 {
		return validationFailed(c, details)
	}

	u, token, err := h.Auth.Register(req.Email, req.Password, name)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "auth.register", map[string]any{"email": u.Email})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"token": token, "user": u.Public()})
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if details := validate.Struct(req); details != nil {
		return validationFailed(c, details)
	}

	u, token, err := h.Auth.Login(req.Email, req.Password)
	if err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"email": req.Email})
		return fail(c, err)
	}
	applog.Audit(c, "auth.login.success", map[string]any{"email": u.Email})
	return c.JSON(fiber.Map{"token": token, "user": u.Public()})
}

// GET /api/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return c.JSON(currentUser(c).Public())
}
