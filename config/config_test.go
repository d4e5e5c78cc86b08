package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConf(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger2master.conf")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	return path
}

func envMap(m map[string]string) Getenv {
	return func(key string) string { return m[key] }
}

func TestDefault_Valid(t *testing.T) {
	cfg := Default()
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate(Default()) error: %v", err)
	}
	if cfg.Output.Format != FormatHex {
		t.Errorf("Output.Format = %s, want hex", cfg.Output.Format)
	}
	if cfg.Derive.MaxRounds != 1000 {
		t.Errorf("Derive.MaxRounds = %d, want 1000", cfg.Derive.MaxRounds)
	}
	if cfg.Mnemonic.Strict {
		t.Error("Mnemonic.Strict should default to false")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"upper-case format", func(c *Config) { c.Output.Format = "BECH32" }, ""},
		{"bad format", func(c *Config) { c.Output.Format = "base58" }, "output.format"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"empty keystore", func(c *Config) { c.Keystore.Dir = "" }, "keystore.dir"},
		{"zero rounds", func(c *Config) { c.Derive.MaxRounds = 0 }, "derive.maxrounds"},
		{"too many rounds", func(c *Config) { c.Derive.MaxRounds = 1001 }, "derive.maxrounds"},
		{"one round", func(c *Config) { c.Derive.MaxRounds = 1 }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}

	if err := Validate(nil); err == nil {
		t.Error("Validate(nil) should fail")
	}
}

func TestValidate_NormalizesFormat(t *testing.T) {
	cfg := Default()
	cfg.Output.Format = " JSON "
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if cfg.Output.Format != FormatJSON {
		t.Errorf("Output.Format = %q, want json", cfg.Output.Format)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConf(t, `
# comment
log.level = debug
log.json = yes
output.format = "bech32"
keystore.dir = '/tmp/ks'
derive.maxrounds = 50
mnemonic.strict = on
unknown.key = ignored
`)
	values, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	cfg := Default()
	if err := ApplyFileConfig(cfg, values); err != nil {
		t.Fatalf("ApplyFileConfig() error: %v", err)
	}

	if cfg.Log.Level != "debug" || !cfg.Log.JSON {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Output.Format != FormatBech32 {
		t.Errorf("Output.Format = %s, want bech32", cfg.Output.Format)
	}
	if cfg.Keystore.Dir != "/tmp/ks" {
		t.Errorf("Keystore.Dir = %s, want /tmp/ks", cfg.Keystore.Dir)
	}
	if cfg.Derive.MaxRounds != 50 {
		t.Errorf("Derive.MaxRounds = %d, want 50", cfg.Derive.MaxRounds)
	}
	if !cfg.Mnemonic.Strict {
		t.Error("Mnemonic.Strict should be true")
	}
}

func TestLoadFile_Missing(t *testing.T) {
	values, err := LoadFile(filepath.Join(t.TempDir(), "absent.conf"))
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if len(values) != 0 {
		t.Errorf("LoadFile() = %v, want empty", values)
	}
}

func TestLoadFile_BadLine(t *testing.T) {
	path := writeConf(t, "log.level debug\n")
	if _, err := LoadFile(path); err == nil || !strings.Contains(err.Error(), "line 1") {
		t.Fatalf("LoadFile() error = %v, want line 1 error", err)
	}
}

func TestApplyFileConfig_BadInt(t *testing.T) {
	cfg := Default()
	err := ApplyFileConfig(cfg, map[string]string{"derive.maxrounds": "many"})
	if err == nil || !strings.Contains(err.Error(), "derive.maxrounds") {
		t.Fatalf("ApplyFileConfig() error = %v", err)
	}
}

func TestWriteDefaultConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "default.conf")
	if err := WriteDefaultConfig(path); err != nil {
		t.Fatalf("WriteDefaultConfig() error: %v", err)
	}
	values, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	cfg := Default()
	if err := ApplyFileConfig(cfg, values); err != nil {
		t.Fatalf("ApplyFileConfig() error: %v", err)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("default file changes config: %+v", cfg)
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	ApplyEnv(cfg, envMap(map[string]string{
		EnvLogLevel: "info",
		EnvLogJSON:  "true",
		EnvFormat:   "json",
		EnvKeystore: "/env/ks",
		EnvStrict:   "1",
	}))
	if cfg.Log.Level != "info" || !cfg.Log.JSON {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Output.Format != FormatJSON {
		t.Errorf("Output.Format = %s", cfg.Output.Format)
	}
	if cfg.Keystore.Dir != "/env/ks" {
		t.Errorf("Keystore.Dir = %s", cfg.Keystore.Dir)
	}
	if !cfg.Mnemonic.Strict {
		t.Error("Mnemonic.Strict should be true")
	}
}

func TestFlags_ExplicitFalseOverridesFile(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f := RegisterFlags(fs)
	if err := fs.Parse([]string{"--strict=false", "--log-level", "error"}); err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	f.MarkSet(fs)
	if !f.SetStrict || f.SetLogJSON {
		t.Fatalf("MarkSet: SetStrict=%v SetLogJSON=%v", f.SetStrict, f.SetLogJSON)
	}

	cfg := Default()
	cfg.Mnemonic.Strict = true
	cfg.Log.JSON = true
	ApplyFlags(cfg, f)
	if cfg.Mnemonic.Strict {
		t.Error("--strict=false should override true")
	}
	if !cfg.Log.JSON {
		t.Error("unset --log-json should leave Log.JSON alone")
	}
	if cfg.Log.Level != "error" {
		t.Errorf("Log.Level = %s, want error", cfg.Log.Level)
	}
}

func TestLoad_Precedence(t *testing.T) {
	path := writeConf(t, "output.format = bech32\nlog.level = info\nkeystore.dir = /file/ks\nderive.maxrounds = 10\n")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f := RegisterFlags(fs)
	if err := fs.Parse([]string{"--config", path, "--format", "json"}); err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	f.MarkSet(fs)

	cfg, err := Load(f, envMap(map[string]string{
		EnvFormat:   "hex",
		EnvLogLevel: "debug",
	}))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// flag > env > file > default
	if cfg.Output.Format != FormatJSON {
		t.Errorf("Output.Format = %s, want json (flag)", cfg.Output.Format)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %s, want debug (env)", cfg.Log.Level)
	}
	if cfg.Keystore.Dir != "/file/ks" {
		t.Errorf("Keystore.Dir = %s, want /file/ks (file)", cfg.Keystore.Dir)
	}
	if cfg.Derive.MaxRounds != 10 {
		t.Errorf("Derive.MaxRounds = %d, want 10 (file)", cfg.Derive.MaxRounds)
	}
}

func TestLoad_ConfigFromEnv(t *testing.T) {
	path := writeConf(t, "output.format = bech32\n")
	cfg, err := Load(nil, envMap(map[string]string{EnvConfig: path}))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Output.Format != FormatBech32 {
		t.Errorf("Output.Format = %s, want bech32", cfg.Output.Format)
	}
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	f := &Flags{Config: filepath.Join(t.TempDir(), "missing.conf")}
	if _, err := Load(f, envMap(nil)); err == nil {
		t.Fatal("Load() should fail for an explicit missing config file")
	}
}

func TestLoad_InvalidValue(t *testing.T) {
	path := writeConf(t, "output.format = base64\n")
	if _, err := Load(&Flags{Config: path}, envMap(nil)); err == nil {
		t.Fatal("Load() should reject invalid output.format")
	}
}
