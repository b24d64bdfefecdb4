package config

import "errors"

var (
	errInitFailed = errors.New(
		"unable to initialise UltraTimer settings from the configuration file",
	)

	errConfigLoad = errors.New(
		"malformed configuration file, falling back to defaults",
	)
)
