package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/Toutiscope/Facturation/internal/application/billing"
	"github.com/Toutiscope/Facturation/internal/application/dto"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Documents *billing.DocumentUseCase
	PDF       *billing.PDFUseCase
	Settings  *billing.SettingsUseCase
	Exchange  *billing.ExchangeUseCase
	Metrics   http.Handler // opcional: expuesto en /metrics
	StoreName string
	JWTSecret string
	JWTIssuer string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(dto.HealthResponse{Status: "ok", Store: deps.StoreName})
	})
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}

	// Rutas protegidas (Bearer Token cuando JWT_SECRET está definido)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))
	write := RequireWrite()

	// Settings
	settingsHandler := NewSettingsHandler(deps.Settings)
	api.Get("/settings", settingsHandler.Get)
	api.Put("/settings", write, settingsHandler.Update)

	// Exchange (solo facturas); antes de /documents/:kind/:id/...
	exchangeHandler := NewExchangeHandler(deps.Exchange)
	api.Get("/documents/invoice/:id/facturx", exchangeHandler.FacturX)
	api.Post("/documents/invoice/:id/clearinghouse", write, exchangeHandler.Submit)

	// Documents
	docs := api.Group("/documents/:kind")
	documentHandler := NewDocumentHandler(deps.Documents, deps.PDF)
	docs.Get("/", documentHandler.List)
	docs.Post("/", write, documentHandler.Save)
	docs.Get("/next-number", documentHandler.NextNumber)
	docs.Post("/validate", documentHandler.Validate)
	docs.Get("/register.pdf", documentHandler.Register)
	docs.Get("/:id", documentHandler.Get)
	docs.Delete("/:id", write, documentHandler.Delete)
	docs.Get("/:id/pdf", documentHandler.PDF)
}
