package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/Klingon-tech/ledger2master/config"
	klog "github.com/Klingon-tech/ledger2master/internal/log"
	"github.com/Klingon-tech/ledger2master/internal/wallet"
	"golang.org/x/term"
)

// maxSecretInput caps what is read from a file or stdin.
const maxSecretInput = 64 << 10

// secretFlags select where the mnemonic and passphrase come from.
type secretFlags struct {
	mnemonicFile   string
	passphraseFile string
	askPassphrase  bool
}

func registerSecretFlags(fs *flag.FlagSet) *secretFlags {
	s := &secretFlags{}
	fs.StringVar(&s.mnemonicFile, "mnemonic-file", "", "Read the mnemonic from a file")
	fs.StringVar(&s.passphraseFile, "passphrase-file", "", "Read the BIP-39 passphrase from a file")
	fs.BoolVar(&s.askPassphrase, "ask-passphrase", false, "Prompt for a BIP-39 passphrase")
	return s
}

// readMnemonic returns the mnemonic from the first available source:
// --mnemonic-file, the environment, a hidden prompt, then stdin.
func (c *cli) readMnemonic(s *secretFlags) (string, error) {
	if s.mnemonicFile != "" {
		b, err := readSecretFile(s.mnemonicFile)
		if err != nil {
			return "", fmt.Errorf("read mnemonic file: %w", err)
		}
		defer wipe(b)
		return wallet.NormalizeMnemonic(string(b)), nil
	}
	if v := c.getenv(config.EnvMnemonic); v != "" {
		return wallet.NormalizeMnemonic(v), nil
	}
	if c.readSecret != nil {
		b, err := c.readSecret("Enter 24-word mnemonic: ")
		if err != nil {
			return "", fmt.Errorf("read mnemonic: %w", err)
		}
		defer wipe(b)
		return wallet.NormalizeMnemonic(string(b)), nil
	}
	b, err := io.ReadAll(io.LimitReader(c.stdin, maxSecretInput))
	if err != nil {
		return "", fmt.Errorf("read mnemonic from stdin: %w", err)
	}
	defer wipe(b)
	return wallet.NormalizeMnemonic(string(b)), nil
}

// readPassphrase returns the optional BIP-39 passphrase. It is used
// verbatim apart from a trailing newline in files.
func (c *cli) readPassphrase(s *secretFlags) (string, error) {
	if s.passphraseFile != "" {
		b, err := readSecretFile(s.passphraseFile)
		if err != nil {
			return "", fmt.Errorf("read passphrase file: %w", err)
		}
		defer wipe(b)
		return string(trimNewline(b)), nil
	}
	if v := c.getenv(config.EnvPassphrase); v != "" {
		return v, nil
	}
	if s.askPassphrase {
		if c.readSecret == nil {
			return "", fmt.Errorf("%w: --ask-passphrase needs a terminal", errUsage)
		}
		b, err := c.readSecret("Enter passphrase: ")
		if err != nil {
			return "", fmt.Errorf("read passphrase: %w", err)
		}
		defer wipe(b)
		return string(b), nil
	}
	return "", nil
}

// readNewPassword asks for a keystore password twice.
func (c *cli) readNewPassword(passwordFile string) ([]byte, error) {
	if passwordFile != "" {
		return c.readPasswordFile(passwordFile)
	}
	if c.readSecret == nil {
		return nil, fmt.Errorf("%w: --password-file is required without a terminal", errUsage)
	}
	password, err := c.readSecret("Enter password: ")
	if err != nil {
		return nil, fmt.Errorf("read password: %w", err)
	}
	confirm, err := c.readSecret("Confirm password: ")
	if err != nil {
		return nil, fmt.Errorf("read password: %w", err)
	}
	defer wipe(confirm)
	if !bytes.Equal(password, confirm) {
		wipe(password)
		return nil, errors.New("passwords do not match")
	}
	return password, nil
}

// readExistingPassword asks for a keystore password once.
func (c *cli) readExistingPassword(passwordFile string) ([]byte, error) {
	if passwordFile != "" {
		return c.readPasswordFile(passwordFile)
	}
	if c.readSecret == nil {
		return nil, fmt.Errorf("%w: --password-file is required without a terminal", errUsage)
	}
	password, err := c.readSecret("Enter password: ")
	if err != nil {
		return nil, fmt.Errorf("read password: %w", err)
	}
	return password, nil
}

func (c *cli) readPasswordFile(path string) ([]byte, error) {
	b, err := readSecretFile(path)
	if err != nil {
		return nil, fmt.Errorf("read password file: %w", err)
	}
	password := trimNewline(b)
	if len(password) == 0 {
		return nil, errors.New("password file is empty")
	}
	return password, nil
}

// checkMnemonic enforces the word count, then the BIP-39 checksum in
// strict mode. Outside strict mode a bad checksum only warns.
func checkMnemonic(mnemonic string, strict bool) error {
	words := wallet.MnemonicWords(mnemonic)
	if len(words) != wallet.MnemonicWordCount {
		return fmt.Errorf("%w, got %d", wallet.ErrInvalidMnemonicLength, len(words))
	}
	if wallet.ValidateMnemonic(mnemonic) {
		return nil
	}
	if strict {
		return wallet.ErrInvalidMnemonic
	}
	klog.CLI.Warn().Msg("Mnemonic failed the BIP-39 wordlist/checksum test; deriving anyway")
	return nil
}

func readSecretFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, maxSecretInput))
}

func trimNewline(b []byte) []byte {
	b = bytes.TrimSuffix(b, []byte("\n"))
	return bytes.TrimSuffix(b, []byte("\r"))
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ── Password helper ─────────────────────────────────────────────────────

func readPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr) // newline after hidden input
	if err != nil {
		return nil, err
	}
	return password, nil
}
