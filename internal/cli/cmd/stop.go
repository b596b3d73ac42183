package cmd

import (
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/matjam/sldshow/internal/ipc"
	"github.com/spf13/cobra"
)

var errStillRunning = errors.New("slideshow still running")

func NewStopCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Close the running slideshow",
		Long: `Asks the running slideshow to close its window and exit. With --wait the
command returns only once the control socket has stopped answering.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if err := ipc.SendStop(); err != nil {
				log.Fatalf("Failed to send 'stop' command: %v", err)
			}
			log.Info("Stop command sent")

			timeout, _ := cmd.Flags().GetDuration("wait")
			if timeout <= 0 {
				return
			}
			alive := func() bool {
				_, err := ipc.SendStatus()
				return err == nil
			}
			if err := waitForExit(alive, timeout, 100*time.Millisecond); err != nil {
				log.Fatalf("Slideshow did not exit within %v", timeout)
			}
			log.Info("Slideshow exited")
		},
	}
	cmd.Flags().Duration("wait", 0, "Wait up to this long for the slideshow to exit")
	return cmd
}

// waitForExit polls alive until it reports false or timeout passes.
func waitForExit(alive func() bool, timeout, interval time.Duration) error {
	deadline := time.Now().Add(timeout)
	for alive() {
		if time.Now().After(deadline) {
			return errStillRunning
		}
		time.Sleep(interval)
	}
	return nil
}
