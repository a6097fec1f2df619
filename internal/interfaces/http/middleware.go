package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// HeaderRequestID cabecera de correlación; se respeta si el cliente la envía.
	HeaderRequestID = "X-Request-ID"
	localRequestID  = "request_id"
	localLogger     = "logger"
)

// httpObserver recibe la duración de cada petición (lo implementa metrics.Recorder).
type httpObserver interface {
	ObserveHTTP(route, method string, status int, seconds float64)
}

// RequestContext asigna un id de petición, un logger con ese id y registra cada petición al terminar.
func RequestContext(log zerolog.Logger, observer httpObserver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		id := c.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(HeaderRequestID, id)
		reqLog := log.With().Str("request_id", id).Logger()
		c.Locals(localRequestID, id)
		c.Locals(localLogger, reqLog)

		err := c.Next()
		if err != nil {
			// Deja que el ErrorHandler de fiber escriba la respuesta antes de medir.
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		elapsed := time.Since(start)
		route := c.Route().Path
		if observer != nil {
			observer.ObserveHTTP(route, c.Method(), status, elapsed.Seconds())
		}
		ev := reqLog.Info()
		if status >= fiber.StatusInternalServerError {
			ev = reqLog.Error()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("elapsed", elapsed).
			Msg("petición atendida")
		return nil
	}
}

// GetRequestID devuelve el id de la petición actual.
func GetRequestID(c *fiber.Ctx) string {
	s, _ := c.Locals(localRequestID).(string)
	return s
}

func requestLogger(c *fiber.Ctx) *zerolog.Logger {
	if l, ok := c.Locals(localLogger).(zerolog.Logger); ok {
		return &l
	}
	nop := zerolog.Nop()
	return &nop
}
