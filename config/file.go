package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LoadFile loads configuration from a .conf file.
// Format: key = value (one per line, # for comments)
// A missing file yields an empty map.
func LoadFile(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}
	defer file.Close()

	values := make(map[string]string)
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("line %d: invalid format (expected key = value)", lineNum)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Remove quotes if present
		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}

		values[key] = value
	}

	return values, scanner.Err()
}

// ApplyFileConfig applies file configuration to a Config struct.
func ApplyFileConfig(cfg *Config, values map[string]string) error {
	for key, value := range values {
		if err := setConfigValue(cfg, key, value); err != nil {
			return fmt.Errorf("config key %q: %w", key, err)
		}
	}
	return nil
}

// setConfigValue sets a config value by key.
// Mnemonics and passphrases are never read from the config file.
func setConfigValue(cfg *Config, key, value string) error {
	switch key {
	// Logging
	case "log.level":
		cfg.Log.Level = value
	case "log.file":
		cfg.Log.File = value
	case "log.json":
		cfg.Log.JSON = parseBool(value)

	// Output
	case "output.format", "format":
		cfg.Output.Format = OutputFormat(value)

	// Keystore
	case "keystore.dir", "keystore":
		cfg.Keystore.Dir = value

	// Derivation
	case "derive.maxrounds":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		cfg.Derive.MaxRounds = n

	// Mnemonic input
	case "mnemonic.strict", "strict":
		cfg.Mnemonic.Strict = parseBool(value)

	default:
		// Unknown keys are ignored
	}
	return nil
}

// parseBool parses a boolean value.
func parseBool(s string) bool {
	s = strings.ToLower(s)
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// WriteDefaultConfig writes a default configuration file.
func WriteDefaultConfig(path string) error {
	content := `# ledger2master configuration
#
# Mnemonics and passphrases are never read from this file.
# Use --mnemonic-file, LEDGER2MASTER_MNEMONIC or the interactive prompt.

# ============================================================================
# Logging (always written to stderr)
# ============================================================================

log.level = warn
# log.file =
log.json = false

# ============================================================================
# Output
# ============================================================================

# hex (192 lowercase characters), bech32 (root_xsk1...) or json
output.format = hex

# ============================================================================
# Keystore
# ============================================================================

# keystore.dir = ` + DefaultKeystoreDir() + `

# ============================================================================
# Derivation
# ============================================================================

# HMAC-SHA512 rounds allowed when searching for a usable extended key
derive.maxrounds = 1000

# Reject mnemonics with a bad BIP-39 checksum instead of warning
mnemonic.strict = false
`
	return os.WriteFile(path, []byte(content), 0600)
}
