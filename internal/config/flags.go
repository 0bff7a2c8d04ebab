package config

import "flag"

var (
	flagConfig    = flag.String("config", "", "Path to config file")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile   = flag.String("log", "", "Log file path")
	flagFPS       = flag.Int("fps", 0, "Target FPS")
	flagSort      = flag.String("sort", "", "Polygon sort: centroid, farthest or bsp")
	flagHeadlight = flag.Bool("headlight", false, "Light the scene from the camera")
	flagShadows   = flag.Bool("shadows", false, "Cast shadow rays")
	flagNoHUD     = flag.Bool("no-hud", false, "Hide the HUD")
	flagDump      = flag.String("dump-config", "", "Write the effective config to this path and exit")
	flagSave      = flag.Bool("save-config", false, "Write the effective config to the user config file and exit")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// DumpPath returns the path given to --dump-config.
func DumpPath() string {
	return *flagDump
}

// SaveRequested reports whether --save-config was given.
func SaveRequested() bool {
	return *flagSave
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
		cfg.Display.ShowHUD = true
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagFPS > 0 {
		cfg.Display.FPS = *flagFPS
	}
	if *flagSort != "" {
		cfg.Render.Sort = *flagSort
	}
	if *flagHeadlight {
		cfg.Render.Headlight = true
	}
	if *flagShadows {
		cfg.Render.Shadows = true
	}
	if *flagNoHUD {
		cfg.Display.ShowHUD = false
	}
}
