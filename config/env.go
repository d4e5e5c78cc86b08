package config

import "os"

// Environment variables read by ledger2master.
const (
	EnvMnemonic   = "LEDGER2MASTER_MNEMONIC"
	EnvPassphrase = "LEDGER2MASTER_PASSPHRASE"
	EnvConfig     = "LEDGER2MASTER_CONFIG"
	EnvLogLevel   = "LEDGER2MASTER_LOG_LEVEL"
	EnvLogJSON    = "LEDGER2MASTER_LOG_JSON"
	EnvFormat     = "LEDGER2MASTER_FORMAT"
	EnvKeystore   = "LEDGER2MASTER_KEYSTORE"
	EnvStrict     = "LEDGER2MASTER_STRICT"
)

// Getenv looks up an environment variable. os.Getenv satisfies it.
type Getenv func(key string) string

// ApplyEnv applies LEDGER2MASTER_* settings to cfg. Unset or empty
// variables leave the current value alone.
func ApplyEnv(cfg *Config, getenv Getenv) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	if v := getenv(EnvLogJSON); v != "" {
		cfg.Log.JSON = parseBool(v)
	}
	if v := getenv(EnvFormat); v != "" {
		cfg.Output.Format = OutputFormat(v)
	}
	if v := getenv(EnvKeystore); v != "" {
		cfg.Keystore.Dir = v
	}
	if v := getenv(EnvStrict); v != "" {
		cfg.Mnemonic.Strict = parseBool(v)
	}
}
