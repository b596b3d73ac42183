package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/matjam/sldshow/internal/config"
	"github.com/matjam/sldshow/internal/glrender"
	"github.com/matjam/sldshow/internal/ipc"
	"github.com/matjam/sldshow/internal/player"
	"github.com/matjam/sldshow/internal/playlist"
)

// ErrAlreadyRunning is returned when another slideshow answers on the socket.
var ErrAlreadyRunning = errors.New("sldshow is already running")

// StartManager runs the slideshow and its control socket until the window
// is closed or a stop command arrives.
func StartManager(cfg *config.Config) error {
	log.Infof("StartManager() started in PID: %d", os.Getpid())

	if os.Getenv("BACKGROUND_PROCESS") == "1" {
		setupRotatingLogger(cfg.Debug)
	}

	if _, err := ipc.SendStatus(); err == nil {
		return ErrAlreadyRunning
	}

	log.Info("Searching for images ...")
	paths := playlist.Scan(cfg.Viewer.ImagePaths, cfg.Viewer.ScanSubfolders)
	if len(paths) == 0 {
		log.Warnf("No images found in %v", cfg.Viewer.ImagePaths)
	} else {
		log.Infof("Found %d images in %v", len(paths), cfg.Viewer.ImagePaths)
	}
	log.Infof("Shuffle: %v", cfg.Viewer.Shuffle)

	p := player.New(cfg, paths)

	server, err := ipc.Listen(p)
	if err != nil {
		return err
	}
	go func() {
		log.Infof("Starting socket server")
		if err := server.Serve(); err != nil {
			log.Errorf("Socket server stopped: %v", err)
		}
	}()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Warnf("Socket server shutdown: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = p.Run(ctx, func() (player.Display, error) {
		return glrender.New(glrender.Options{
			Width:          cfg.Window.Width,
			Height:         cfg.Window.Height,
			Fullscreen:     cfg.Window.Fullscreen,
			Title:          "sldshow",
			AlwaysOnTop:    cfg.Window.AlwaysOnTop,
			Titlebar:       cfg.Window.Titlebar,
			Resizable:      cfg.Window.Resizable,
			MonitorIndex:   cfg.Window.MonitorIndex,
			CursorAutoHide: cfg.Window.CursorAutoHide,
		})
	})
	log.Infof("sldshow exited")
	return err
}

func setupRotatingLogger(debug bool) {
	home := os.Getenv("HOME")
	logDir := filepath.Join(home, ".local", "share", "sldshow")
	logPath := filepath.Join(logDir, "sldshow.log")

	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Fatalf("failed to create log directory: %v", err)
	}

	writer, err := rotatelogs.New(
		logPath+".%Y%m%d%H%M",
		rotatelogs.WithLinkName(logPath),
		rotatelogs.WithMaxAge(7*24*time.Hour),
		rotatelogs.WithRotationSize(10*1024*1024),
		rotatelogs.WithRotationTime(24*time.Hour),
	)
	if err != nil {
		log.Fatalf("failed to configure log rotation: %v", err)
	}

	log.SetOutput(writer)
	if debug {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}
