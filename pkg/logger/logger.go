package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config opciones para el logger.
type Config struct {
	Env   string // development -> consola legible; production -> JSON
	Level string // trace, debug, info, warn, error
}

// Logger wrapper sobre zerolog para inyección y consistencia.
type Logger struct {
	zl zerolog.Logger
}

// New crea un logger estructurado. En development usa salida legible; en production JSON.
func New(cfg Config) *Logger {
	return NewWithWriter(cfg, os.Stderr)
}

// NewWithWriter igual que New escribiendo en out (la CLI reserva stdout para resultados).
func NewWithWriter(cfg Config, out io.Writer) *Logger {
	var zl zerolog.Logger
	if cfg.Env == "development" {
		zl = zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}).With().Timestamp().Caller().Logger()
	} else {
		zl = zerolog.New(out).With().Timestamp().Logger()
	}
	zl = zl.Level(parseLevel(cfg.Level))

	// Redirigir el logger global de zerolog para librerías que lo usen
	log.Logger = zl

	return &Logger{zl: zl}
}

// parseLevel nivel de zerolog; vacío o desconocido cae a info.
func parseLevel(s string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

// WithComponent sublogger del logger global con el campo component.
// Sirve en los puntos de entrada, tras New; el resto recibe el logger inyectado.
func WithComponent(component string) zerolog.Logger {
	return withComponent(log.Logger, component)
}

func withComponent(zl zerolog.Logger, component string) zerolog.Logger {
	return zl.With().Str("component", component).Logger()
}

// Trace, Debug, Info, Warn, Error delegados a zerolog.
func (l *Logger) Trace() *zerolog.Event { return l.zl.Trace() }
func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }

// Component sublogger con el campo component fijado (sequencer, store, http...).
func (l *Logger) Component(name string) zerolog.Logger {
	return withComponent(l.zl, name)
}
