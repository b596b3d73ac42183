package ipc

import (
	"net/http"
	"os"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/matjam/sldshow"
	"github.com/shirou/gopsutil/v3/process"
	"github.com/spf13/viper"
)

func status(ctrl Controller) StatusResponse {
	return StatusResponse{
		Status:  "ok",
		Message: "sldshow is running",
		Version: strings.Trim(sldshow.Version, "\n\r "),
		PID:     os.Getpid(),
		Socket:  SocketPath(),
		Config:  viper.ConfigFileUsed(),
		RSS:     processRSS(),
		Player:  ctrl.Status(),
	}
}

func processRSS() uint64 {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return 0
	}
	mem, err := p.MemoryInfo()
	if err != nil {
		return 0
	}
	return mem.RSS
}

func enqueue(c echo.Context, ctrl Controller, cmd Command) error {
	if err := cmd.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, Response{Status: "error", Message: err.Error()})
	}
	if err := ctrl.EnqueueCommand(cmd); err != nil {
		return c.JSON(http.StatusServiceUnavailable, Response{Status: "error", Message: err.Error()})
	}
	return c.JSON(http.StatusOK, Response{Status: "ok"})
}

// GET /status
func statusHandler(ctrl Controller) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSONPretty(http.StatusOK, status(ctrl), "  ")
	}
}

// POST /command
func commandHandler(ctrl Controller) echo.HandlerFunc {
	return func(c echo.Context) error {
		var cmd Command
		if err := c.Bind(&cmd); err != nil {
			return c.JSON(http.StatusBadRequest, Response{Status: "error", Message: "invalid command"})
		}
		if cmd.Type == CommandStatus {
			return c.JSON(http.StatusOK, Response{Status: "ok", Data: status(ctrl)})
		}
		return enqueue(c, ctrl, cmd)
	}
}

// POST /<command> with an optional JSON array of arguments
func typedHandler(ctrl Controller, t CommandType) echo.HandlerFunc {
	return func(c echo.Context) error {
		var args []string
		if err := c.Bind(&args); err != nil {
			return c.JSON(http.StatusBadRequest, Response{Status: "error", Message: "invalid JSON array of arguments"})
		}
		return enqueue(c, ctrl, Command{Type: t, Args: args})
	}
}
