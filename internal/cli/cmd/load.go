package cmd

import (
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/matjam/sldshow/internal/ipc"
	"github.com/matjam/sldshow/internal/playlist"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func NewLoadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load [image.jpg] [directory] ...",
		Short: "Replace the playlist of the running slideshow",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			// the slideshow may run in another working directory
			paths := lo.Map(args, func(p string, _ int) string {
				p = playlist.CanonicalPath(p)
				if abs, err := filepath.Abs(p); err == nil {
					return abs
				}
				return p
			})
			if err := ipc.SendLoad(paths); err != nil {
				log.Fatalf("Failed to send 'load' command: %v", err)
			}
			log.Infof("Sent %d paths", len(paths))
		},
	}
}
