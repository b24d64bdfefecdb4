// Package config is responsible for setting the program config from
// the config file and command-line arguments.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/pterm/pterm"
	"github.com/spf13/viper"
	"github.com/urfave/cli/v2"
)

var appCfg = &Config{}

var once sync.Once

var (
	configDir      = "ultratimer"
	configFileName = "config.yml"
	dbFileName     = "ultratimer.db"
	logFileName    = "ultratimer.log"
)

const (
	defaultDurationSeconds = 300
	defaultWarningSeconds  = 120
	defaultCriticalSeconds = 60
	pomodoroSeconds        = 1500
)

// PomodoroDuration is the fixed length of a pomodoro work session.
const PomodoroDuration = pomodoroSeconds * time.Second

const (
	keyDuration     = "duration"
	keyWarningTime  = "warning_time"
	keyCriticalTime = "critical_time"
	keyMode         = "mode"
	keySound        = "sound_enabled"
	keyNotify       = "notify"
	keyColorTheme   = "color_theme"
	keyRemotePort   = "remote_port"
	keyFinishCmd    = "finish_cmd"
)

// Config represents the program configuration derived from the config file
// and command-line arguments.
type Config struct {
	Duration      time.Duration `json:"duration"`
	WarningTime   time.Duration `json:"warning_time"`
	CriticalTime  time.Duration `json:"critical_time"`
	Mode          string        `json:"mode"`
	ColorTheme    string        `json:"color_theme"`
	FinishCmd     string        `json:"finish_cmd"`
	PathToConfig  string        `json:"path_to_config"`
	PathToDB      string        `json:"path_to_db"`
	PathToLogFile string        `json:"path_to_log"`
	RemotePort    uint          `json:"remote_port"`
	SoundEnabled  bool          `json:"sound_enabled"`
	Notify        bool          `json:"notify"`
}

func init() {
	env := strings.TrimSpace(os.Getenv("UT_ENV"))
	if env != "" {
		configFileName = fmt.Sprintf("config_%s.yml", env)
		dbFileName = fmt.Sprintf("ultratimer_%s.db", env)
		logFileName = fmt.Sprintf("ultratimer_%s.log", env)
	}
}

// Dir returns the name of the config directory.
func Dir() string {
	return configDir
}

func setDefaults() {
	viper.SetDefault(keyDuration, defaultDurationSeconds)
	viper.SetDefault(keyWarningTime, defaultWarningSeconds)
	viper.SetDefault(keyCriticalTime, defaultCriticalSeconds)
	viper.SetDefault(keyMode, "timer")
	viper.SetDefault(keySound, true)
	viper.SetDefault(keyNotify, true)
	viper.SetDefault(keyColorTheme, "default")
	viper.SetDefault(keyRemotePort, 0)
	viper.SetDefault(keyFinishCmd, "")
}

// initConfig reads the config file, creating it with default values if it
// does not exist yet. A malformed file is reported and the defaults are
// used instead.
func initConfig() error {
	viper.SetConfigName(strings.TrimSuffix(configFileName, ".yml"))
	viper.SetConfigType("yaml")

	relPath := filepath.Join(configDir, configFileName)

	pathToConfigFile, err := xdg.ConfigFile(relPath)
	if err != nil {
		return err
	}

	appCfg.PathToConfig = pathToConfigFile

	viper.AddConfigPath(filepath.Dir(pathToConfigFile))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return viper.WriteConfigAs(pathToConfigFile)
		}

		pterm.Warning.Printfln(
			"%v: %v", errConfigLoad, err,
		)
	}

	return nil
}

func setConfig(ctx *cli.Context) error {
	pathToDB, err := xdg.DataFile(filepath.Join(configDir, dbFileName))
	if err != nil {
		return err
	}

	pathToLogFile, err := xdg.DataFile(filepath.Join(configDir, logFileName))
	if err != nil {
		return err
	}

	appCfg.PathToDB = pathToDB
	appCfg.PathToLogFile = pathToLogFile

	// set from config file
	appCfg.Duration = time.Duration(viper.GetInt(keyDuration)) * time.Second
	appCfg.WarningTime = time.Duration(
		viper.GetInt(keyWarningTime),
	) * time.Second
	appCfg.CriticalTime = time.Duration(
		viper.GetInt(keyCriticalTime),
	) * time.Second
	appCfg.Mode = viper.GetString(keyMode)
	appCfg.SoundEnabled = viper.GetBool(keySound)
	appCfg.Notify = viper.GetBool(keyNotify)
	appCfg.ColorTheme = viper.GetString(keyColorTheme)
	appCfg.RemotePort = viper.GetUint(keyRemotePort)
	appCfg.FinishCmd = viper.GetString(keyFinishCmd)

	// set from command-line arguments
	if ctx.Uint("duration") > 0 {
		appCfg.Duration = time.Duration(ctx.Uint("duration")) * time.Second
	}

	if ctx.IsSet("warning") {
		appCfg.WarningTime = time.Duration(ctx.Uint("warning")) * time.Second
	}

	if ctx.IsSet("critical") {
		appCfg.CriticalTime = time.Duration(ctx.Uint("critical")) * time.Second
	}

	if ctx.String("mode") != "" {
		appCfg.Mode = ctx.String("mode")
	}

	if ctx.Bool("no-sound") {
		appCfg.SoundEnabled = false
	}

	if ctx.Bool("disable-notification") {
		appCfg.Notify = false
	}

	if ctx.String("theme") != "" {
		appCfg.ColorTheme = ctx.String("theme")
	}

	if ctx.IsSet("port") {
		appCfg.RemotePort = ctx.Uint("port")
	}

	if ctx.String("finish-cmd") != "" {
		appCfg.FinishCmd = ctx.String("finish-cmd")
	}

	normalise(appCfg)

	return nil
}

// normalise enforces critical <= warning <= duration so that threshold
// crossings happen in a sensible order.
func normalise(cfg *Config) {
	if cfg.Mode == "pomodoro" {
		cfg.Duration = PomodoroDuration
	}

	if cfg.WarningTime > cfg.Duration {
		cfg.WarningTime = cfg.Duration
	}

	if cfg.CriticalTime > cfg.WarningTime {
		cfg.CriticalTime = cfg.WarningTime
	}
}

// Get initialises and returns the application configuration. The
// initialisation is done just once no matter how many times it is called.
func Get(ctx *cli.Context) *Config {
	once.Do(func() {
		err := initConfig()
		if err != nil {
			pterm.Error.Printfln("%s: %s", errInitFailed.Error(), err.Error())
			os.Exit(1)
		}

		err = setConfig(ctx)
		if err != nil {
			pterm.Error.Printfln("%s: %s", errInitFailed.Error(), err.Error())
			os.Exit(1)
		}
	})

	return appCfg
}
