package cmd

import (
	"github.com/charmbracelet/log"
	"github.com/matjam/sldshow/internal/ipc"
	"github.com/spf13/cobra"
)

// newSendCmd builds a command that sends t without arguments.
func newSendCmd(t ipc.CommandType, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(t),
		Short: short,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if err := ipc.Send(t); err != nil {
				log.Fatalf("Failed to send '%s' command: %v", t, err)
			}
			log.Infof("%s command sent", t)
		},
	}
}

func NewNextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Show the next image",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			t := ipc.CommandNext
			if ten, _ := cmd.Flags().GetBool("ten"); ten {
				t = ipc.CommandNext10
			}
			if err := ipc.Send(t); err != nil {
				log.Fatalf("Failed to send 'next' command: %v", err)
			}
			log.Info("Next image command sent")
		},
	}
	cmd.Flags().Bool("ten", false, "Skip ten images")
	return cmd
}

func NewPrevCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prev",
		Short: "Show the previous image",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			t := ipc.CommandPrev
			if ten, _ := cmd.Flags().GetBool("ten"); ten {
				t = ipc.CommandPrev10
			}
			if err := ipc.Send(t); err != nil {
				log.Fatalf("Failed to send 'prev' command: %v", err)
			}
			log.Info("Previous image command sent")
		},
	}
	cmd.Flags().Bool("ten", false, "Go back ten images")
	return cmd
}

func NewFirstCmd() *cobra.Command {
	return newSendCmd(ipc.CommandFirst, "Show the first image")
}

func NewLastCmd() *cobra.Command {
	return newSendCmd(ipc.CommandLast, "Show the last image")
}

func NewRandomCmd() *cobra.Command {
	return newSendCmd(ipc.CommandRandom, "Show a random image")
}

func NewPauseCmd() *cobra.Command {
	return newSendCmd(ipc.CommandPause, "Pause autoplay")
}

func NewResumeCmd() *cobra.Command {
	return newSendCmd(ipc.CommandResume, "Resume autoplay")
}

func NewToggleCmd() *cobra.Command {
	cmd := newSendCmd(ipc.CommandTogglePause, "Toggle autoplay")
	cmd.Aliases = []string{"toggle"}
	return cmd
}

func NewResetTimerCmd() *cobra.Command {
	return newSendCmd(ipc.CommandResetTimer, "Set the autoplay timer back to the configured value")
}

func NewPauseAtLastCmd() *cobra.Command {
	return newSendCmd(ipc.CommandPauseAtLast, "Toggle stopping autoplay at the last image")
}
