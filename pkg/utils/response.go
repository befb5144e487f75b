package utils

import "github.com/gofiber/fiber/v2"

// JSON writes a success payload. Callers pass the full body; the success flag
// is added so clients can branch without inspecting status codes.
func JSON(c *fiber.Ctx, status int, body fiber.Map) error {
	if body == nil {
		body = fiber.Map{}
	}
	body["success"] = true
	return c.Status(status).JSON(body)
}

// Error writes the failure envelope. Internal error detail never reaches the
// client; message is the user-facing text only.
func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}
