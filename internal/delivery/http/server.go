package http

import (
	"context"
	"fmt"
	"log/slog"

	"unified-push-server/config"
	"unified-push-server/internal/delivery"
	httpmw "unified-push-server/internal/delivery/http/middleware"
	"unified-push-server/internal/delivery/http/router"
	"unified-push-server/internal/delivery/http/validator"
	deliverymw "unified-push-server/internal/delivery/middleware"
	"unified-push-server/internal/domain/lifecycle"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	slogecho "github.com/samber/slog-echo"
	"go.uber.org/fx"
)

type HTTPParams struct {
	fx.In
	fx.Lifecycle

	Config       *config.Config
	Logger       *slog.Logger
	RouterParams router.RouterParams
}

type httpServer struct {
	cfg    *config.Config
	logger *slog.Logger
	server *echo.Echo
}

func NewServer(params HTTPParams) (delivery.Delivery, error) {
	echoServer := echo.New()
	echoServer.HideBanner = true
	echoServer.Validator = validator.New()
	echoServer.Use(httpmw.NewErrorMiddleware(params.Logger).HandleErrors)
	echoServer.Use(deliverymw.NewRequestIDMiddleware(params.Logger).Process)
	echoServer.Use(deliverymw.NewLoggerMiddleware(params.Logger, params.Config).Handle)
	echoServer.Use(slogecho.New(params.Logger))
	echoServer.Use(echomw.Recover())
	echoServer.Use(echomw.CORS())

	router := router.NewRouter(params.RouterParams)
	router.RegisterRoutes(echoServer)

	delivery := &httpServer{
		cfg:    params.Config,
		logger: params.Logger,
		server: echoServer,
	}

	params.Lifecycle.Append(fx.Hook{
		OnStop: delivery.stop,
	})

	return delivery, nil
}

func (s *httpServer) Serve(ctx context.Context) error {
	s.logger.Info("Starting HTTP server", slog.Int("port", s.cfg.HTTP.Port))
	if err := s.server.Start(fmt.Sprintf(":%d", s.cfg.HTTP.Port)); err != nil {
		return errors.Wrap(err, "failed to serve https")
	}

	return nil
}

func (s *httpServer) stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
	defer cancel()

	s.logger.Info("Shutting down HTTP server")

	return errors.WithStack(s.server.Shutdown(shutdownCtx))
}
