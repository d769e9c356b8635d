package server

import "github.com/gofiber/fiber/v2"

// APIError is the JSON body of every failed request.
type APIError struct {
	Error string `json:"error"`
}

func newError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(APIError{Error: message})
}

func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusBadRequest, msg)
}

func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusInternalServerError, msg)
}
