package config

import "flag"

var (
	flagConfig      = flag.String("config", "", "Path to config file")
	flagDebug       = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile     = flag.String("log-file", "", "Write logs to this file as well")
	flagOutput      = flag.String("o", "", "Output .bbmod path")
	flagRevision    = flag.Int("revision", 0, "BBMOD revision (2 or 3)")
	flagAttrs       = flag.String("attrs", "", "Comma-separated vertex attributes")
	flagLayout      = flag.String("layout", "", "Node layout: single-root or per-object")
	flagStrict      = flag.Bool("strict", false, "Fail on unknown vertex attributes")
	flagRejectEmpty = flag.Bool("reject-empty", false, "Fail when the scene has no meshes")
	flagSave        = flag.Bool("save", false, "Save the effective config to the user config dir")
)

// ParseFlags parses command-line flags that follow the subcommand.
func ParseFlags(args []string) error {
	return flag.CommandLine.Parse(args)
}

// Args returns the positional arguments left after flag parsing.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// SaveRequested reports whether -save was given.
func SaveRequested() bool {
	return *flagSave
}

// OutputPath returns the output path given with -o.
func OutputPath() string {
	return *flagOutput
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagRevision != 0 {
		cfg.Export.Revision = *flagRevision
	}
	if *flagAttrs != "" {
		cfg.Export.Attributes = splitList(*flagAttrs)
	}
	if *flagLayout != "" {
		cfg.Export.NodeLayout = *flagLayout
	}
	if *flagStrict {
		cfg.Export.StrictAttributes = true
	}
	if *flagRejectEmpty {
		cfg.Export.RejectEmpty = true
	}
}
