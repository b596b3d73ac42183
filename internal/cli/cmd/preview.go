package cmd

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/charmbracelet/log"
	"github.com/matjam/sldshow/internal/config"
	"github.com/matjam/sldshow/internal/decoder"
	"github.com/matjam/sldshow/internal/transition"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// PreviewOptions renders one transition frame without a GPU.
type PreviewOptions struct {
	From, To string
	Out      string
	Mode     transition.Mode
	Progress float64
	Width    int
	Height   int
}

func NewPreviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview <from> <to>",
		Short: "Render one transition frame to a PNG file",
		Long: `Renders the frame drawn while moving from one image to another at the
given progress, on the CPU. Useful to look at a mode without a display.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(viper.GetViper())
			if err != nil {
				return err
			}

			name, _ := cmd.Flags().GetString("mode")
			mode, err := transition.ParseMode(name)
			if err != nil {
				return err
			}
			opts := PreviewOptions{From: args[0], To: args[1], Mode: mode}
			opts.Out, _ = cmd.Flags().GetString("out")
			opts.Progress, _ = cmd.Flags().GetFloat64("progress")
			opts.Width, _ = cmd.Flags().GetInt("width")
			opts.Height, _ = cmd.Flags().GetInt("height")
			if opts.Width <= 0 {
				opts.Width = cfg.Window.Width
			}
			if opts.Height <= 0 {
				opts.Height = cfg.Window.Height
			}

			if err := Preview(cfg, opts); err != nil {
				return err
			}
			log.Infof("Wrote %s", opts.Out)
			return nil
		},
	}
	cmd.Flags().StringP("mode", "m", transition.Crossfade.String(), "transition mode")
	cmd.Flags().Float64P("progress", "p", 0.5, "transition progress from 0 to 1")
	cmd.Flags().StringP("out", "o", "preview.png", "output file")
	cmd.Flags().Int("width", 0, "frame width (default window.width)")
	cmd.Flags().Int("height", 0, "frame height (default window.height)")
	return cmd
}

// Preview decodes both images the way the slideshow does and writes the
// composited frame to opts.Out.
func Preview(cfg *config.Config, opts PreviewOptions) error {
	if opts.Progress < 0 || opts.Progress > 1 {
		return fmt.Errorf("progress must be between 0 and 1, got %v", opts.Progress)
	}

	dec := &decoder.Decoder{Scaling: cfg.Scaling(), Background: cfg.Background()}
	size := image.Pt(opts.Width, opts.Height)

	from, err := dec.Decode(opts.From, size, cfg.Filter())
	if err != nil {
		return err
	}
	to, err := dec.Decode(opts.To, size, cfg.Filter())
	if err != nil {
		return err
	}

	eased := cfg.Easing().Apply(float32(opts.Progress))
	frame := transition.Composite(from, to, opts.Width, opts.Height, transition.Frame{
		Mode:       opts.Mode,
		T:          float64(eased),
		Background: cfg.Background(),
	})

	f, err := os.Create(opts.Out)
	if err != nil {
		return err
	}
	if err := png.Encode(f, frame); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
