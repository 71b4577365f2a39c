package config

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
)

// Flags holds the command line overrides. Only flags the user actually set
// replace file values.
type Flags struct {
	Path string

	fs       *flag.FlagSet
	variant  string
	hz       int
	seed     uint
	listen   string
	csv      string
	events   string
	index    string
	logLevel string
	logJSON  bool
}

// Bind registers the flags on fs.
func (f *Flags) Bind(fs *flag.FlagSet) {
	f.fs = fs
	fs.StringVar(&f.Path, "config", "", "YAML configuration file merged over the defaults")
	fs.StringVar(&f.variant, "variant", "small", "world variant (small or large)")
	fs.IntVar(&f.hz, "hz", 20, "frame rate")
	fs.UintVar(&f.seed, "seed", 0, "PRNG seed (0 seeds from the clock)")
	fs.StringVar(&f.listen, "listen", "127.0.0.1:8080", "frame observer address (empty disables)")
	fs.StringVar(&f.csv, "csv", "", "write population window stats to this CSV file")
	fs.StringVar(&f.events, "events", "", "journal scene events under this directory")
	fs.StringVar(&f.index, "index", "", "SQLite run index path")
	fs.StringVar(&f.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	fs.BoolVar(&f.logJSON, "log-json", false, "log JSON lines instead of text")
}

// Load reads the configuration file named by -config and applies the flags
// that were set explicitly. fs must already be parsed.
func (f *Flags) Load() (*Config, error) {
	cfg, err := Load(f.Path)
	if err != nil {
		return nil, err
	}
	if err := f.Apply(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Apply copies explicitly set flags into cfg and re-checks it.
func (f *Flags) Apply(cfg *Config) error {
	if f.fs == nil {
		return cfg.Check()
	}
	var err error
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "variant":
			cfg.Variant = f.variant
		case "hz":
			cfg.Hz = f.hz
		case "seed":
			if f.seed > 0xffffffff {
				err = fmt.Errorf("config: -seed %d does not fit in 32 bits", f.seed)
				return
			}
			cfg.Seed = uint32(f.seed)
		case "listen":
			cfg.Observer.Listen = f.listen
		case "csv":
			cfg.Telemetry.CSV = f.csv
		case "events":
			cfg.Events.Dir = f.events
		case "index":
			cfg.Index.Path = f.index
		case "log-level":
			cfg.Log.Level = f.logLevel
		case "log-json":
			cfg.Log.JSON = f.logJSON
		}
	})
	if err != nil {
		return err
	}
	return cfg.Check()
}

// NewLogger builds the process logger described by c.
func (c LogConfig) NewLogger(w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.JSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
