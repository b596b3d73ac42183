package cmd

import (
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/matjam/sldshow/internal/ipc"
	"github.com/spf13/cobra"
)

// NewJumpCmd takes raw arguments so negative indices are not read as flags.
func NewJumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:                "jump <index>",
		Short:              "Show the image at index, counting from 0. Negative values count from the end",
		Args:               cobra.ExactArgs(1),
		DisableFlagParsing: true,
		Run: func(cmd *cobra.Command, args []string) {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				log.Fatalf("Invalid index %q", args[0])
			}
			if err := ipc.SendJump(index); err != nil {
				log.Fatalf("Failed to send 'jump' command: %v", err)
			}
			log.Infof("Jump to %d sent", index)
		},
	}
}
