package cmd

import (
	"github.com/charmbracelet/log"
	"github.com/matjam/sldshow/internal/cli/cmd/utils"
	"github.com/matjam/sldshow/internal/ipc"
	"github.com/spf13/cobra"
)

func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Get slideshow status",
		Long:  `Returns the current status of the running slideshow: position, timer, transition and cache state.`,
		Run: func(cmd *cobra.Command, args []string) {
			response, err := ipc.SendStatus()
			if err != nil {
				log.Errorf("Error getting status: %v", err)
				return
			}

			utils.PrintJSONColored(response)
		},
	}
}
