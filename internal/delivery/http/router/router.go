// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"unified-push-server/internal/delivery/http/router/handler"
)

type RouterParams struct {
	fx.In

	SubmitHandler  *handler.SubmitHandler
	MetricsHandler *handler.MetricsHandler
}

// router holds all the handlers that need to be registered.
type router struct {
	submitHandler  *handler.SubmitHandler
	metricsHandler *handler.MetricsHandler
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		submitHandler:  params.SubmitHandler,
		metricsHandler: params.MetricsHandler,
	}
}

// RegisterRoutes sets up all the API routes for the application (§6).
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	restGroup := e.Group("/rest")
	restGroup.POST("/sender", r.submitHandler.Submit)
	restGroup.GET("/metrics/messages/application/:id", r.metricsHandler.ListMessages)
}
