package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/matjam/sldshow/internal/ipc"
	"github.com/matjam/sldshow/internal/transition"
	"github.com/spf13/cobra"
)

func NewModeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "mode <name|random>",
		Short:     "Set the transition mode",
		Long:      `Sets the transition used from the next image on. "random" picks a new mode for every transition.`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: append(transition.Names(), "random"),
		Run: func(cmd *cobra.Command, args []string) {
			if err := ipc.Send(ipc.CommandMode, args[0]); err != nil {
				log.Fatalf("Failed to send 'mode' command: %v", err)
			}
			log.Infof("Mode %s sent", args[0])
		},
	}
}

func NewModesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "modes",
		Short: "List the transition modes",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for i, name := range transition.Names() {
				fmt.Fprintf(cmd.OutOrStdout(), "%2d  %s\n", i, name)
			}
		},
	}
}

// NewTimerCmd takes raw arguments so "-5" is read as a value.
func NewTimerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "timer <seconds|+seconds|-seconds>",
		Short: "Set or adjust the autoplay timer",
		Long: strings.TrimSpace(`
Sets the number of seconds each image is shown. A leading + or - adjusts
the current value instead. 0 pauses autoplay.`),
		Args:               cobra.ExactArgs(1),
		DisableFlagParsing: true,
		Run: func(cmd *cobra.Command, args []string) {
			if _, _, err := ipc.ParseTimer(args[0]); err != nil {
				log.Fatal(err)
			}
			if err := ipc.Send(ipc.CommandTimer, args[0]); err != nil {
				log.Fatalf("Failed to send 'timer' command: %v", err)
			}
			log.Infof("Timer %s sent", args[0])
		},
	}
}
