package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kballard/go-shellquote"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"
	"gopkg.in/natefinch/lumberjack.v2"

	"ultratimer/config"
	"ultratimer/internal/models"
	"ultratimer/internal/osutil"
	"ultratimer/remote"
	"ultratimer/store"
	"ultratimer/timer"
	"ultratimer/ui"
)

var errPresetNameRequired = errors.New("a preset name is required")

// initLogFile routes structured logs to a rotating file in the data
// directory so the TUI stays clean.
func initLogFile(cfg *config.Config) {
	logger := slog.New(slog.NewJSONHandler(&lumberjack.Logger{
		Filename:   cfg.PathToLogFile,
		MaxSize:    5, // megabytes
		MaxBackups: 3,
	}, nil))

	slog.SetDefault(logger)
}

// openStore connects to the database. A failure is downgraded to a
// warning: the timer still works, only presets and statistics are
// unavailable for the session.
func openStore(cfg *config.Config) store.DB {
	db, err := store.NewClient(cfg.PathToDB)
	if err != nil {
		pterm.Warning.Printfln("persistence disabled: %v", err)
		slog.Warn("unable to open data store", slog.Any("error", err))

		return nil
	}

	return db
}

// runFinishCmd executes the configured finish command, if any.
func runFinishCmd(finishCmd string) {
	if finishCmd == "" {
		return
	}

	cmdSlice, err := shellquote.Split(finishCmd)
	if err != nil {
		slog.Warn("unable to parse finish_cmd option", slog.Any("error", err))
		return
	}

	if len(cmdSlice) == 0 {
		return
	}

	cmd := exec.Command(cmdSlice[0], cmdSlice[1:]...)

	if err := cmd.Run(); err != nil {
		slog.Warn("finish command failed", slog.Any("error", err))
	}
}

// defaultAction runs the interactive timer.
func defaultAction(ctx *cli.Context) error {
	cfg := config.Get(ctx)

	initLogFile(cfg)

	db := openStore(cfg)

	defer func() {
		if db != nil {
			_ = db.Close()
		}
	}()

	engine := timer.NewEngine(cfg)

	if db != nil {
		stats, err := db.Stats()
		if err != nil {
			pterm.Warning.Printfln("unable to load statistics: %v", err)
		} else {
			engine.SetStats(stats)
		}

		if name := ctx.String("preset"); name != "" {
			preset, err := db.GetPreset(name)
			if err != nil {
				return fmt.Errorf("unable to load preset %q: %w", name, err)
			}

			engine.ApplyPreset(preset)
			cfg.ColorTheme = preset.ColorTheme
			cfg.SoundEnabled = preset.SoundEnabled
		}
	}

	effects := timer.NewSystemEffects(cfg.SoundEnabled, cfg.Notify)
	notifier := timer.NewNotifier(effects)

	var remoteAddr string

	srv, err := remote.New(engine, cfg.RemotePort)
	if err != nil {
		// the timer works without the remote control feature
		pterm.Warning.Printfln("remote control disabled: %v", err)
		slog.Warn("remote control disabled", slog.Any("error", err))
	} else {
		srv.Start()
		remoteAddr = srv.Addr()
	}

	model := ui.New(engine, config.GetTheme(cfg.ColorTheme), remoteAddr)

	program := tea.NewProgram(model)

	sched := timer.NewScheduler(engine, notifier)

	sched.OnPublish(func(snap timer.Snapshot) {
		program.Send(ui.SnapshotMsg(snap))
	})

	sched.OnFinish(func(snap timer.Snapshot) {
		if db != nil {
			if err := db.SaveStats(engine.Stats()); err != nil {
				slog.Warn("unable to save statistics", slog.Any("error", err))
			}
		}

		runFinishCmd(cfg.FinishCmd)
	})

	tickCtx, cancel := context.WithCancel(ctx.Context)
	defer cancel()

	go sched.Run(tickCtx)

	_, err = program.Run()

	cancel()

	if srv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(
			context.Background(), 2*time.Second,
		)
		defer shutdownCancel()

		_ = srv.Shutdown(shutdownCtx)
	}

	if db != nil {
		if serr := db.SaveStats(engine.Stats()); serr != nil {
			pterm.Warning.Printfln("unable to save statistics: %v", serr)
		}
	}

	slog.Info("exiting ultratimer")

	return err
}

func presetSaveAction(ctx *cli.Context) error {
	name := ctx.Args().First()
	if name == "" {
		return errPresetNameRequired
	}

	cfg := config.Get(ctx)

	db, err := store.NewClient(cfg.PathToDB)
	if err != nil {
		return err
	}
	defer db.Close()

	preset := models.Preset{
		Name:         name,
		Duration:     int(cfg.Duration.Seconds()),
		WarningTime:  int(cfg.WarningTime.Seconds()),
		CriticalTime: int(cfg.CriticalTime.Seconds()),
		SoundEnabled: cfg.SoundEnabled,
		ColorTheme:   cfg.ColorTheme,
	}

	if err := db.SavePreset(preset); err != nil {
		return err
	}

	pterm.Success.Printfln("preset '%s' saved", name)

	return nil
}

func presetListAction(ctx *cli.Context) error {
	cfg := config.Get(ctx)

	db, err := store.NewClient(cfg.PathToDB)
	if err != nil {
		return err
	}
	defer db.Close()

	presets, err := db.Presets()
	if err != nil {
		return err
	}

	if len(presets) == 0 {
		pterm.Info.Println("no saved presets found")
		return nil
	}

	data := pterm.TableData{
		{"NAME", "DURATION", "WARNING", "CRITICAL", "SOUND", "THEME"},
	}

	for _, p := range presets {
		data = append(data, []string{
			p.Name,
			fmt.Sprintf("%dm%ds", p.Duration/60, p.Duration%60),
			fmt.Sprintf("%ds", p.WarningTime),
			fmt.Sprintf("%ds", p.CriticalTime),
			fmt.Sprintf("%t", p.SoundEnabled),
			p.ColorTheme,
		})
	}

	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func presetDeleteAction(ctx *cli.Context) error {
	name := ctx.Args().First()
	if name == "" {
		return errPresetNameRequired
	}

	cfg := config.Get(ctx)

	db, err := store.NewClient(cfg.PathToDB)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.DeletePreset(name); err != nil {
		return err
	}

	pterm.Success.Printfln("preset '%s' deleted", name)

	return nil
}

func statsShowAction(ctx *cli.Context) error {
	cfg := config.Get(ctx)

	db, err := store.NewClient(cfg.PathToDB)
	if err != nil {
		return err
	}
	defer db.Close()

	stats, err := db.Stats()
	if err != nil {
		return err
	}

	hours := stats.TotalTime / 3600
	minutes := (stats.TotalTime % 3600) / 60

	pterm.Printfln("Total sessions:   %d", stats.TotalSessions)
	pterm.Printfln("Completed timers: %d", stats.CompletedTimers)
	pterm.Printfln("Total time:       %dh %dm", hours, minutes)
	pterm.Printfln("Average duration: %ds", stats.AverageDuration)

	return nil
}

func statsResetAction(ctx *cli.Context) error {
	cfg := config.Get(ctx)

	db, err := store.NewClient(cfg.PathToDB)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.SaveStats(models.Statistics{}); err != nil {
		return err
	}

	pterm.Success.Println("statistics reset")

	return nil
}

// settingsDocument is the export/import format: every preset, the
// statistics record, and the display preferences in one document.
type settingsDocument struct {
	Presets      map[string]models.Preset `json:"presets"`
	Stats        models.Statistics        `json:"stats"`
	Theme        string                   `json:"theme"`
	SoundEnabled bool                     `json:"sound_enabled"`
}

func exportAction(ctx *cli.Context) error {
	filename := ctx.Args().First()
	if filename == "" {
		return errors.New("an output file is required")
	}

	cfg := config.Get(ctx)

	db, err := store.NewClient(cfg.PathToDB)
	if err != nil {
		return err
	}
	defer db.Close()

	presets, err := db.Presets()
	if err != nil {
		return err
	}

	stats, err := db.Stats()
	if err != nil {
		return err
	}

	doc := settingsDocument{
		Presets:      presets,
		Stats:        stats,
		Theme:        cfg.ColorTheme,
		SoundEnabled: cfg.SoundEnabled,
	}

	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	if err := osutil.WriteFileAtomic(filename, b); err != nil {
		return err
	}

	pterm.Success.Printfln("settings exported to %s", filename)

	return nil
}

func importAction(ctx *cli.Context) error {
	filename := ctx.Args().First()
	if filename == "" {
		return errors.New("an input file is required")
	}

	b, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	var doc settingsDocument

	if err := json.Unmarshal(b, &doc); err != nil {
		return err
	}

	cfg := config.Get(ctx)

	db, err := store.NewClient(cfg.PathToDB)
	if err != nil {
		return err
	}
	defer db.Close()

	for name, preset := range doc.Presets {
		preset.Name = name

		if err := db.SavePreset(preset); err != nil {
			return err
		}
	}

	if err := db.SaveStats(doc.Stats); err != nil {
		return err
	}

	pterm.Success.Println("settings imported successfully")

	return nil
}

func editConfigAction(ctx *cli.Context) error {
	cfg := config.Get(ctx)

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	cmd := exec.Command(editor, cfg.PathToConfig)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}
