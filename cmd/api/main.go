package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Toutiscope/Facturation/internal/bootstrap"
	httpRouter "github.com/Toutiscope/Facturation/internal/interfaces/http"
	"github.com/Toutiscope/Facturation/pkg/config"
	"github.com/Toutiscope/Facturation/pkg/logger"
)

// @title       Facturation API
// @version     1.0
// @description Presupuestos y facturas: validación, numeración, PDF y Factur-X.
// @BasePath    /api
// @securityDefinitions.apikey BearerAuth
// @in          header
// @name        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	container, err := bootstrap.New(ctx, cfg, logger.WithComponent("bootstrap"))
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer container.Close()

	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío: la API queda abierta sin autenticación")
	}

	app := httpRouter.NewApp(httpRouter.ServerConfig{
		AppName:  cfg.App.Name,
		DocsPath: cfg.HTTP.DocsPath,
	}, logger.WithComponent("http"), container.Metrics)

	httpRouter.Router(app, httpRouter.RouterDeps{
		Documents: container.Documents,
		PDF:       container.PDF,
		Settings:  container.Settings,
		Exchange:  container.Exchange,
		Metrics:   container.Metrics.Handler(),
		StoreName: cfg.Store.Driver,
		JWTSecret: cfg.JWT.Secret,
		JWTIssuer: cfg.JWT.Issuer,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
