package http

import (
	"errors"
	"os"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/Toutiscope/Facturation/internal/application/dto"
)

// ServerConfig opciones de la aplicación fiber.
type ServerConfig struct {
	AppName  string
	DocsPath string // swagger.json; vacío o inexistente = sin /docs
}

// NewApp crea la aplicación fiber con recover, id de petición, logging y métricas HTTP.
// observer puede ser nil.
func NewApp(cfg ServerConfig, log zerolog.Logger, observer httpObserver) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: "HTTP", Message: fe.Message})
			}
			return writeError(c, err)
		},
	})
	app.Use(RequestContext(log, observer))
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if cfg.DocsPath != "" {
		if _, err := os.Stat(cfg.DocsPath); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: cfg.DocsPath,
				Path:     "docs",
				Title:    "Facturation API",
			}))
		} else {
			log.Warn().Str("path", cfg.DocsPath).Msg("swagger.json no encontrado; /docs desactivado")
		}
	}
	return app
}
