// Package app defines the command-line interface for UltraTimer.
package app

import (
	"os"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"
)

// Version is set at build time.
var Version = "dev"

const (
	envNoColor   = "NO_COLOR"
	envUTNoColor = "ULTRATIMER_NO_COLOR"
)

// disableStyling disables all styling provided by pterm.
func disableStyling() {
	pterm.DisableColor()
	pterm.DisableStyling()
	pterm.Debug.Prefix.Text = ""
	pterm.Info.Prefix.Text = ""
	pterm.Success.Prefix.Text = ""
	pterm.Warning.Prefix.Text = ""
	pterm.Error.Prefix.Text = ""
	pterm.Fatal.Prefix.Text = ""
}

// Get retrieves the ultratimer app instance.
func Get() *cli.App {
	return &cli.App{
		Name: "ultratimer",
		Usage: `
		UltraTimer is a cross-platform timer, countdown, stopwatch, and
		pomodoro clock for the command line, with presets, statistics, and
		a remote control server for driving it from another device.`,
		UsageText:            "[COMMAND] [OPTIONS]",
		Version:              Version,
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			{
				Name:  "preset",
				Usage: "Manage saved timer presets",
				Subcommands: []*cli.Command{
					{
						Name:      "save",
						Usage:     "Save the current timer settings under a name",
						ArgsUsage: "<name>",
						Action:    presetSaveAction,
					},
					{
						Name:   "list",
						Usage:  "List all saved presets",
						Action: presetListAction,
					},
					{
						Name:      "delete",
						Usage:     "Delete a preset",
						ArgsUsage: "<name>",
						Action:    presetDeleteAction,
					},
				},
			},
			{
				Name:   "stats",
				Usage:  "Print accumulated timer statistics",
				Action: statsShowAction,
				Subcommands: []*cli.Command{
					{
						Name:   "reset",
						Usage:  "Reset all statistics counters to zero",
						Action: statsResetAction,
					},
				},
			},
			{
				Name:      "export",
				Usage:     "Export presets and statistics to a JSON file",
				ArgsUsage: "<file>",
				Action:    exportAction,
			},
			{
				Name:      "import",
				Usage:     "Import presets and statistics from a JSON file",
				ArgsUsage: "<file>",
				Action:    importAction,
			},
			{
				Name:   "edit-config",
				Usage:  "Edit the configuration file",
				Action: editConfigAction,
			},
		},
		Flags: []cli.Flag{
			durationFlag,
			modeFlag,
			warningFlag,
			criticalFlag,
			presetFlag,
			portFlag,
			themeFlag,
			noSoundFlag,
			disableNotificationFlag,
			finishCmdFlag,
			noColorFlag,
		},
		Action: defaultAction,
		Before: func(ctx *cli.Context) error {
			if _, ok := os.LookupEnv(envNoColor); ok {
				disableStyling()
			}

			if _, ok := os.LookupEnv(envUTNoColor); ok {
				disableStyling()
			}

			if ctx.Bool("no-color") {
				disableStyling()
			}

			return nil
		},
	}
}
