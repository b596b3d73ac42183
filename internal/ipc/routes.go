package ipc

import (
	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, ctrl Controller) {
	e.GET("/status", statusHandler(ctrl))
	e.POST("/command", commandHandler(ctrl))

	for _, t := range PlayerCommands {
		e.POST("/"+string(t), typedHandler(ctrl, t))
	}
}
