package ipc

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/matjam/sldshow/internal/middleware"
)

// SocketPath is where the control socket lives.
func SocketPath() string {
	sockDir := os.Getenv("XDG_RUNTIME_DIR")
	if sockDir == "" {
		sockDir = os.TempDir()
	}
	return filepath.Join(sockDir, "sldshow.sock")
}

type Server struct {
	e    *echo.Echo
	path string
}

func newEcho(ctrl Controller) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.CharmLog())

	RegisterRoutes(e, ctrl)
	return e
}

// Listen binds the control socket, replacing a stale one.
func Listen(ctrl Controller) (*Server, error) {
	sockPath := SocketPath()
	if _, err := os.Stat(sockPath); err == nil {
		_ = os.Remove(sockPath)
	}

	listener, err := net.Listen("unix", sockPath)
	if err != nil {
		return nil, err
	}

	e := newEcho(ctrl)
	e.Listener = listener
	return &Server{e: e, path: sockPath}, nil
}

// Serve blocks until the server is shut down.
func (s *Server) Serve() error {
	log.Infof("Listening on %s", s.path)
	server := new(http.Server)
	if err := s.e.StartServer(server); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	defer os.Remove(s.path)
	return s.e.Shutdown(ctx)
}
