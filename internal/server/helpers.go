package server

import (
	"log/slog"

	"quill/internal/middleware"
	"quill/internal/models"
	"quill/internal/pagination"
	"quill/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// respondError writes err with the status its code maps to. Server errors
// are logged with their cause; the client only sees the generic message.
func respondError(c *fiber.Ctx, err error) error {
	status := models.StatusFor(err)
	if status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request failed",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
	}
	return models.RespondWithError(c, status, err)
}

// parseID reads a route parameter holding a resource ID.
func parseID(c *fiber.Ctx, param string) (string, error) {
	return validation.ParseID(c.Params(param))
}

// parseBody decodes the JSON request body into dst.
func parseBody(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return models.NewValidationError("Invalid request body", nil)
	}
	return nil
}

// parsePagination extracts page and limit query parameters.
func parsePagination(c *fiber.Ctx) pagination.Params {
	return pagination.Parse(c.Query("page"), c.Query("limit"))
}

// identity returns the caller set by the auth middleware. Routes using it
// are always behind AuthRequired.
func identity(c *fiber.Ctx) models.Identity {
	id, _ := middleware.IdentityFrom(c)
	return id
}
