package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/viveksanandiya/pdf-annotator/internal/middleware"
	"github.com/viveksanandiya/pdf-annotator/internal/storage"
	"gorm.io/gorm"
)

// RegisterRoutes mounts the full API surface on app.
func RegisterRoutes(app *fiber.App, db *gorm.DB, store storage.Store) {
	authHandler := NewAuthHandler(db)
	pdfHandler := NewPDFHandler(db, store)
	highlightHandler := NewHighlightHandler(db)
	authMiddleware := middleware.NewAuthMiddleware(db)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	})

	authRoutes := app.Group("/auth")
	authRoutes.Post("/signup", authHandler.Signup)
	authRoutes.Post("/login", authHandler.Login)
	authRoutes.Get("/verify", authMiddleware.RequireAuth, authHandler.Verify)

	pdfRoutes := app.Group("/pdf", authMiddleware.RequireAuth)
	pdfRoutes.Post("/upload", pdfHandler.Upload)
	pdfRoutes.Get("/list", pdfHandler.List)
	pdfRoutes.Get("/:uuid", pdfHandler.Get)
	pdfRoutes.Delete("/:uuid", pdfHandler.Delete)

	highlightRoutes := app.Group("/highlight", authMiddleware.RequireAuth)
	highlightRoutes.Post("/", highlightHandler.Create)
	// The bulk route must precede the parameterized ones.
	highlightRoutes.Delete("/pdf/:pdfUuid", highlightHandler.DeleteAllForDocument)
	highlightRoutes.Get("/:pdfUuid/page/:pageNumber", highlightHandler.ListByPage)
	highlightRoutes.Get("/:pdfUuid", highlightHandler.ListByDocument)
	highlightRoutes.Put("/:id", highlightHandler.Update)
	highlightRoutes.Delete("/:id", highlightHandler.Delete)
}
