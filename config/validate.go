package config

import (
	"fmt"
	"strings"

	klog "github.com/Klingon-tech/ledger2master/internal/log"
	"github.com/Klingon-tech/ledger2master/internal/wallet"
)

// Validate checks the configuration for operator mistakes and normalizes
// case-insensitive values.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	if !klog.ValidLevel(cfg.Log.Level) {
		return fmt.Errorf("log.level must be debug, info, warn, error or off, got %q", cfg.Log.Level)
	}

	cfg.Output.Format = OutputFormat(strings.ToLower(strings.TrimSpace(string(cfg.Output.Format))))
	switch cfg.Output.Format {
	case FormatHex, FormatBech32, FormatJSON:
	default:
		return fmt.Errorf("output.format must be hex, bech32 or json, got %q", cfg.Output.Format)
	}

	if cfg.Keystore.Dir == "" {
		return fmt.Errorf("keystore.dir is empty")
	}

	if cfg.Derive.MaxRounds < 1 || cfg.Derive.MaxRounds > wallet.MaxDerivationRounds {
		return fmt.Errorf("derive.maxrounds must be in range [1, %d]", wallet.MaxDerivationRounds)
	}

	return nil
}
