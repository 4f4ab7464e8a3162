package main

import (
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"sporcu-lisans-takip/internal/httpapi"
	"sporcu-lisans-takip/pkg/config"
	"sporcu-lisans-takip/pkg/db"
	"sporcu-lisans-takip/pkg/gen"
	"sporcu-lisans-takip/pkg/health"
	"sporcu-lisans-takip/pkg/logger"
	"sporcu-lisans-takip/pkg/redis"
	"sporcu-lisans-takip/pkg/sequence"
	"sporcu-lisans-takip/pkg/server"
	"sporcu-lisans-takip/services/bootstrap"
	"sporcu-lisans-takip/services/license"
	"sporcu-lisans-takip/services/refdata"
)

func main() {
	opts := []fx.Option{
		config.Module,
		logger.Module,
		db.Module,
		redis.Module,
		gen.Module,
		sequence.Module,
		fx.Provide(
			provideTracerProvider,
		),
		health.Module,
		bootstrap.Module,
		refdata.Module,
		license.Module,
		httpapi.Module,
		server.Module,
		fxLogger,
	}

	if err := fx.ValidateApp(opts...); err != nil {
		log.Fatalf("fx validation failed: %v", err)
	}

	app := fx.New(opts...)

	app.Run()
}

var fxLogger = fx.WithLogger(func(cfg *config.Config, logger *zap.Logger) fxevent.Logger {
	return fxevent.NopLogger
})

func provideTracerProvider() trace.TracerProvider {
	return otel.GetTracerProvider()
}
