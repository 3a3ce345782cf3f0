package http

import "github.com/gofiber/fiber/v2"

// NewApp builds the fiber app. Request values such as route params end up in the stores
// after the handler returns, so the app runs immutable: fiber hands out copies instead of
// views into the reused request buffer.
func NewApp(name string, bodyLimit int) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:   name,
		BodyLimit: bodyLimit,
		Immutable: true,
	})
}
