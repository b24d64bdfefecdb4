package app

import "github.com/urfave/cli/v2"

var (
	durationFlag = &cli.UintFlag{
		Name:    "duration",
		Aliases: []string{"d"},
		Usage:   "Timer duration in seconds",
	}

	modeFlag = &cli.StringFlag{
		Name:    "mode",
		Aliases: []string{"m"},
		Usage:   "Timer mode: clock, timer, countdown, stopwatch, or pomodoro",
	}

	warningFlag = &cli.UintFlag{
		Name:  "warning",
		Usage: "Remaining seconds at which the warning sound plays",
	}

	criticalFlag = &cli.UintFlag{
		Name:  "critical",
		Usage: "Remaining seconds at which the critical sound plays",
	}

	presetFlag = &cli.StringFlag{
		Name:    "preset",
		Aliases: []string{"p"},
		Usage:   "Start with the duration and thresholds of a saved preset",
	}

	portFlag = &cli.UintFlag{
		Name:  "port",
		Usage: "Remote control port (0 picks an ephemeral port)",
	}

	themeFlag = &cli.StringFlag{
		Name:  "theme",
		Usage: "Color theme: default, dark, light, neon, forest, ocean, or sunset",
	}

	noSoundFlag = &cli.BoolFlag{
		Name:  "no-sound",
		Usage: "Disable all alert sounds",
	}

	disableNotificationFlag = &cli.BoolFlag{
		Name:  "disable-notification",
		Usage: "Disable the system notification that appears when a timer finishes",
	}

	finishCmdFlag = &cli.StringFlag{
		Name:  "finish-cmd",
		Usage: "Execute an arbitrary command when a timer completes",
	}

	noColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable coloured output",
	}
)
