package config

import (
	"flag"
	"fmt"
	"os"
)

// Flags holds configuration flags shared by every subcommand.
type Flags struct {
	Config string

	// Logging
	LogLevel string
	LogFile  string
	LogJSON  bool

	// Output
	Format string

	// Keystore
	KeystoreDir string

	// Derivation
	MaxRounds int
	Strict    bool

	// Explicitly-set bool flags (for true/false overrides).
	SetLogJSON bool
	SetStrict  bool
}

// RegisterFlags adds the shared configuration flags to fs.
// Call MarkSet after fs.Parse.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}

	fs.StringVar(&f.Config, "config", "", "Config file path")
	fs.StringVar(&f.Config, "c", "", "Config file path (shorthand)")

	fs.StringVar(&f.LogLevel, "log-level", "", "Log level (debug, info, warn, error, off)")
	fs.StringVar(&f.LogFile, "log-file", "", "Log file path")
	fs.BoolVar(&f.LogJSON, "log-json", false, "Output logs as JSON")

	fs.StringVar(&f.Format, "format", "", "Output format (hex, bech32, json)")
	fs.StringVar(&f.KeystoreDir, "keystore", "", "Keystore directory")

	fs.IntVar(&f.MaxRounds, "max-rounds", 0, "Maximum HMAC-SHA512 rounds per derivation")
	fs.BoolVar(&f.Strict, "strict", false, "Reject mnemonics with an invalid BIP-39 checksum")

	return f
}

// MarkSet records which bool flags were given explicitly.
func (f *Flags) MarkSet(fs *flag.FlagSet) {
	f.SetLogJSON = isFlagSet(fs, "log-json")
	f.SetStrict = isFlagSet(fs, "strict")
}

// ApplyFlags applies command-line flags to a Config struct.
func ApplyFlags(cfg *Config, f *Flags) {
	if f == nil {
		return
	}

	// Logging
	if f.LogLevel != "" {
		cfg.Log.Level = f.LogLevel
	}
	if f.LogFile != "" {
		cfg.Log.File = f.LogFile
	}
	if f.SetLogJSON {
		cfg.Log.JSON = f.LogJSON
	}

	// Output
	if f.Format != "" {
		cfg.Output.Format = OutputFormat(f.Format)
	}

	// Keystore
	if f.KeystoreDir != "" {
		cfg.Keystore.Dir = f.KeystoreDir
	}

	// Derivation
	if f.MaxRounds != 0 {
		cfg.Derive.MaxRounds = f.MaxRounds
	}
	if f.SetStrict {
		cfg.Mnemonic.Strict = f.Strict
	}
}

// Load resolves the configuration: defaults, then the config file, then
// the environment, then flags. The result is validated.
func Load(f *Flags, getenv Getenv) (*Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}

	cfg := Default()

	path := DefaultConfigFile()
	explicit := false
	if v := getenv(EnvConfig); v != "" {
		path, explicit = v, true
	}
	if f != nil && f.Config != "" {
		path, explicit = f.Config, true
	}

	if explicit {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
	}
	values, err := LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := ApplyFileConfig(cfg, values); err != nil {
		return nil, err
	}

	ApplyEnv(cfg, getenv)
	ApplyFlags(cfg, f)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// isFlagSet checks if a flag was explicitly set on the command line.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}
