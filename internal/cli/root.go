/*
Copyright © 2025 Nathan Ollerenshaw <chrome@stupendous.net>
*/
package cli

import (
	"errors"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/matjam/sldshow"
	"github.com/matjam/sldshow/internal/cli/cmd"
	"github.com/matjam/sldshow/internal/cli/cmd/utils"
	"github.com/matjam/sldshow/internal/config"
	"github.com/sevlyar/go-daemon"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sldshow [file.sldshow] [image or directory] ...",
	Short: "A hardware accelerated image slideshow",
	Long: `sldshow shows images in a window with GPU driven transitions between
them. Images around the current one are decoded ahead of time so that
navigation stays smooth.

Without a subcommand the slideshow is started. A .sldshow file given as the
first argument is used as the config file; relative image paths in it start
at its folder. The other commands talk to a running slideshow over its
control socket.`,
	Run: runSlideshow,
}

var startCmd = &cobra.Command{
	Use:   "start [file.sldshow] [image or directory] ...",
	Short: "Start the slideshow",
	Run:   runSlideshow,
}

func runSlideshow(c *cobra.Command, args []string) {
	if v, err := c.Flags().GetBool("show-config"); err == nil && v {
		log.Infof("Using config file: %v", viper.ConfigFileUsed())
		log.Infof("All settings:")
		utils.PrintJSONColored(viper.AllSettings())
		return
	}

	if v, err := c.Flags().GetBool("version"); err == nil && v {
		printVersion()
		return
	}

	if v, err := c.Flags().GetBool("installconfig"); err == nil && v {
		utils.InstallDefaultConfig()
		return
	}

	bindStartFlags(c)
	if len(args) > 0 && config.IsSlideshowFile(args[0]) {
		if err := config.ReadSlideshowFile(viper.GetViper(), args[0]); err != nil {
			log.Fatalf("Invalid slideshow file: %v", err)
		}
		log.Infof("Using slideshow file: %v", viper.ConfigFileUsed())
		args = args[1:]
	}
	if len(args) > 0 {
		viper.Set("viewer.image_paths", args)
	}

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if v, _ := c.Flags().GetBool("background"); v && !daemon.WasReborn() {
		if !daemonize() {
			return
		}
	}

	if err := cmd.StartManager(cfg); err != nil {
		log.Fatalf("sldshow stopped: %v", err)
	}
}

func printVersion() {
	babyBlue := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("76"))
	log.Infof("%v version %v © 2025 %v",
		babyBlue.Render("sldshow "),
		green.Render(strings.Trim(sldshow.Version, "\n\r ")),
		yellow.Render("Nathan Ollerenshaw"))
}

// daemonize forks a detached copy of the process. It returns true in the
// child, which should carry on starting the slideshow.
func daemonize() bool {
	ctx := &daemon.Context{
		WorkDir: "./",
		Umask:   027,
		Env:     append(os.Environ(), "BACKGROUND_PROCESS=1"),
	}

	child, err := ctx.Reborn()
	if err != nil {
		log.Fatalf("Unable to run in the background: %v", err)
	}
	if child != nil {
		log.Infof("sldshow started in the background, PID %d", child.Pid)
		return false
	}
	return true
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/sldshow/sldshow.toml)")
	rootCmd.PersistentFlags().BoolP("installconfig", "i", false, "Install a default config file")
	rootCmd.PersistentFlags().Bool("show-config", false, "Dump resolved config")
	rootCmd.PersistentFlags().BoolP("background", "b", false, "Run as a daemon")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolP("version", "v", false, "Print version")
	rootCmd.PersistentFlags().BoolP("help", "h", false, "Print usage")
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))

	for _, c := range []*cobra.Command{rootCmd, startCmd} {
		c.Flags().BoolP("fullscreen", "f", false, "Start in fullscreen")
		c.Flags().Float64P("timer", "t", 0, "Seconds per image, 0 starts paused")
		c.Flags().BoolP("shuffle", "s", false, "Shuffle the images")
		c.Flags().BoolP("recursive", "r", false, "Scan subfolders")
	}

	rootCmd.AddCommand(
		startCmd,
		cmd.NewStopCmd(),
		cmd.NewNextCmd(),
		cmd.NewPrevCmd(),
		cmd.NewFirstCmd(),
		cmd.NewLastCmd(),
		cmd.NewRandomCmd(),
		cmd.NewJumpCmd(),
		cmd.NewPauseCmd(),
		cmd.NewResumeCmd(),
		cmd.NewToggleCmd(),
		cmd.NewLoadCmd(),
		cmd.NewModeCmd(),
		cmd.NewModesCmd(),
		cmd.NewTimerCmd(),
		cmd.NewResetTimerCmd(),
		cmd.NewPauseAtLastCmd(),
		cmd.NewStatusCmd(),
		cmd.NewPreviewCmd(),
		cmd.NewGenManCmd(rootCmd),
	)
}

// bindStartFlags lets the flags of the running command override the config
// file. Unset flags fall back to the configured values.
func bindStartFlags(c *cobra.Command) {
	for key, flag := range map[string]string{
		"window.fullscreen":      "fullscreen",
		"viewer.timer":           "timer",
		"viewer.shuffle":         "shuffle",
		"viewer.scan_subfolders": "recursive",
	} {
		_ = viper.BindPFlag(key, c.Flags().Lookup(flag))
	}
}

func initConfig() {
	v := viper.GetViper()
	config.SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("sldshow")
		v.SetConfigType("toml")
		v.AddConfigPath("$HOME/.config/sldshow")
		v.AddConfigPath("/etc/xdg/sldshow")
	}

	v.SetEnvPrefix("SLDSHOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv() // read environment variables that match

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			cobra.CheckErr(err)
		}
		log.Debug("No config file found, using defaults")
	}

	if v.GetBool("debug") {
		log.SetLevel(log.DebugLevel)
		log.SetReportCaller(true)
	}
}
