package config

import "flag"

// Flags holds command-line overrides. Zero values leave the config alone.
type Flags struct {
	Config   string
	Seed     string
	Mode     string
	Profile  string
	Addr     string
	LogLevel string
	LogFile  string
	Debug    bool
}

// RegisterFlags binds the shared overrides to fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.StringVar(&f.Seed, "seed", "", "Generation seed")
	fs.StringVar(&f.Mode, "mode", "", "Generation mode: terrain or structures")
	fs.StringVar(&f.Profile, "profile", "", "Embedded player profile to use instead of the configured one (default, floaty); required when the config has none")
	fs.StringVar(&f.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&f.LogFile, "log-file", "", "Rotating log file path")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	return f
}

// RegisterServerFlags binds the overrides used by the chunk service.
func RegisterServerFlags(fs *flag.FlagSet) *Flags {
	f := RegisterFlags(fs)
	fs.StringVar(&f.Addr, "addr", "", "Listen address")
	return f
}

// ApplyFlags applies CLI overrides to cfg and revalidates it.
func ApplyFlags(cfg *Config, f *Flags) error {
	if f == nil {
		return nil
	}
	if f.Seed != "" {
		cfg.Generation.Seed = f.Seed
	}
	if f.Mode != "" {
		cfg.Generation.Mode = f.Mode
	}
	if f.Profile != "" {
		p, err := NamedProfile(f.Profile)
		if err != nil {
			return err
		}
		cfg.Profile = p
	}
	if f.Addr != "" {
		cfg.Server.Addr = f.Addr
	}
	if f.LogLevel != "" {
		cfg.Logging.Level = f.LogLevel
	}
	if f.LogFile != "" {
		cfg.Logging.LogFile = f.LogFile
	}
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	return cfg.Validate()
}
