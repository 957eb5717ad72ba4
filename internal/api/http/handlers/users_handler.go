package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// UsersHandler exposes directory administration.
type UsersHandler struct {
	directory *service.DirectoryService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(directory *service.DirectoryService) *UsersHandler {
	return &UsersHandler{directory: directory}
}

// ListUsers GET /users.
func (h *UsersHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.directory.ListUsers(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, dto.NewUserResponse(u))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateUser POST /users.
func (h *UsersHandler) CreateUser(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, err := h.directory.AddUser(actorContext(c, principal), service.NewUserInput{
		Name:     req.Name,
		Division: req.Division,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewUserResponse(*user)})
}

// CreateDivision POST /divisions.
func (h *UsersHandler) CreateDivision(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateDivisionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, err := h.directory.AddDivision(actorContext(c, principal), req.Division, req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewUserResponse(*user)})
}

// DeleteUser DELETE /users/:id.
func (h *UsersHandler) DeleteUser(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := h.directory.DeleteUser(actorContext(c, principal), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListDivisions GET /divisions.
func (h *UsersHandler) ListDivisions(c *fiber.Ctx) error {
	divisions, err := h.directory.Divisions(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": divisions})
}
