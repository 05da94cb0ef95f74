package config

import "flag"

var (
	flagConfig  = flag.String("config", "", "Path to config file")
	flagDebug   = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile = flag.String("log-file", "", "Write logs to file")
	flagWidth   = flag.Int("width", 0, "Rendered image width in pixels")
	flagHeight  = flag.Int("height", 0, "Rendered image height in pixels")
)

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagWidth > 0 {
		cfg.Output.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Output.Height = *flagHeight
	}
}
