package router

import (
	"github.com/labstack/echo/v4"

	"carelink/internal/adapter/api/handler"
)

func SetupHealthRouter(e *echo.Echo, healthHandler *handler.HealthHandler) {
	e.GET("/", healthHandler.Check)
	e.GET("/health", healthHandler.Check)
}
