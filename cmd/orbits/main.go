package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/starcharter/orbits/internal/config"
	"github.com/starcharter/orbits/internal/infrastructure/providers"
	"github.com/starcharter/orbits/internal/lexicon"
	"github.com/starcharter/orbits/internal/present/rest"
	"github.com/starcharter/orbits/internal/present/rest/middleware"
	"github.com/starcharter/orbits/internal/usecase"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	conf, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	if conf.Server.EnableTrace {
		shutdown, err := providers.SetupTracer(ctx, conf.Server)
		if err != nil {
			slog.Error("failed to set up tracing", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer shutdown(ctx)
	}

	repo, err := providers.NewRecordRepository(conf.Server)
	if err != nil {
		slog.Error("failed to construct record repository", slog.String("error", err.Error()))
		os.Exit(1)
	}

	registry := lexicon.LoadAll(conf.Server.LexiconPath)
	slog.Info("loaded lexicons", slog.Int("count", len(registry)))
	validator := lexicon.NewValidator(registry)

	signal := providers.NewSignalStream(conf.Server)
	runtime := conf.Domain()

	orbit := usecase.NewOrbitUsecase(runtime, repo, validator, signal)

	e := echo.New()
	e.HideBanner = true
	e.Validator = rest.NewValidator()
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	if conf.Server.EnableTrace {
		e.Use(otelecho.Middleware("orbits"))
	}

	admin := middleware.NewAdminMiddleware(runtime)
	handler := rest.NewHandler(runtime, orbit, signal)
	handler.RegisterRoutes(e, admin)

	e.Logger.Fatal(e.Start(conf.Server.Listen))
}
