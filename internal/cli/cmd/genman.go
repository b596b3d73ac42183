package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/matjam/sldshow"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

// NewGenManCmd returns a hidden command that writes one man page per
// command of root into a directory.
func NewGenManCmd(root *cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:    "genman [output-dir]",
		Short:  "Write the sldshow man pages",
		Args:   cobra.ExactArgs(1),
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			section, _ := cmd.Flags().GetString("section")
			n, err := writeManPages(root, filepath.Clean(args[0]), section)
			if err != nil {
				return err
			}
			log.Infof("Wrote %d man pages to %s", n, args[0])
			return nil
		},
	}
	cmd.Flags().String("section", "1", "Man page section")
	return cmd
}

func writeManPages(root *cobra.Command, dir, section string) (int, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("creating %s: %w", dir, err)
	}
	header := &doc.GenManHeader{
		Title:   "SLDSHOW",
		Section: section,
		Source:  "sldshow " + strings.TrimSpace(sldshow.Version),
		Manual:  "sldshow manual",
	}
	if err := doc.GenManTree(root, header, dir); err != nil {
		return 0, err
	}
	pages, err := filepath.Glob(filepath.Join(dir, "*."+section))
	return len(pages), err
}
