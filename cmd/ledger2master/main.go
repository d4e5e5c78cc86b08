// ledger2master derives the Cardano Icarus/Ledger root key from a 24-word
// recovery sentence and manages encrypted copies of it.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Klingon-tech/ledger2master/config"
	klog "github.com/Klingon-tech/ledger2master/internal/log"
	"github.com/Klingon-tech/ledger2master/internal/wallet"
	"golang.org/x/term"
)

// Process exit codes.
const (
	exitOK             = 0
	exitError          = 1
	exitUsage          = 2
	exitExpectMismatch = 3
	exitBadLength      = 127
)

var (
	errUsage          = errors.New("usage")
	errExpectMismatch = errors.New("master key does not match expected value")
)

// cli carries the process streams so commands can run against buffers.
type cli struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	getenv config.Getenv

	// readSecret prompts without echo. nil when stdin is not a terminal.
	readSecret func(prompt string) ([]byte, error)

	kdfParams wallet.EncryptionParams
}

func main() {
	c := &cli{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		getenv: os.Getenv,

		kdfParams: wallet.DefaultParams(),
	}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		c.readSecret = readPassword
	}
	os.Exit(c.run(os.Args[1:]))
}

// run dispatches args and maps the result to an exit code.
func (c *cli) run(args []string) int {
	cmd := "derive"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}

	var err error
	switch cmd {
	case "derive":
		err = c.cmdDerive(args)
	case "xvk":
		err = c.cmdXVK(args)
	case "generate":
		err = c.cmdGenerate(args)
	case "validate":
		err = c.cmdValidate(args)
	case "export":
		err = c.cmdExport(args)
	case "keystore":
		err = c.cmdKeystore(args)
	case "selftest":
		err = c.cmdSelfTest(args)
	case "init-config":
		err = c.cmdInitConfig(args)
	case "help", "--help", "-h":
		c.usage()
		return exitOK
	default:
		fmt.Fprintf(c.stderr, "Unknown command: %s\n\n", cmd)
		c.usage()
		return exitUsage
	}
	return c.exit(err)
}

func (c *cli) exit(err error) int {
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	fmt.Fprintf(c.stderr, "Error: %v\n", err)
	switch {
	case errors.Is(err, errUsage):
		return exitUsage
	case errors.Is(err, errExpectMismatch):
		return exitExpectMismatch
	case errors.Is(err, wallet.ErrInvalidMnemonicLength):
		return exitBadLength
	default:
		return exitError
	}
}

func (c *cli) usage() {
	fmt.Fprintf(c.stderr, `Usage: ledger2master [command] [flags]

Commands:
  derive      Print the root master key for a mnemonic (default)
  xvk         Print the root extended public key
  generate    Generate a new 24-word mnemonic
  validate    Check a mnemonic's word count and BIP-39 checksum
  export      Derive a master key and store it encrypted in the keystore
  keystore    Manage stored keys (list, show, delete)
  selftest    Check the built-in known-answer vectors
  init-config Write a default config file
  help        Show this message

Shared flags:
  --config <path>      Config file (default: %s)
  --format <fmt>       hex (default), bech32 or json
  --keystore <dir>     Keystore directory
  --strict             Reject mnemonics with an invalid checksum
  --max-rounds <n>     HMAC-SHA512 round bound (1-%d)
  --log-level <lvl>    debug, info, warn (default), error, off
  --log-json           Log as JSON
  --log-file <path>    Also write JSON logs to a file

Mnemonic input, first match wins:
  --mnemonic-file <path>, $%s, a hidden prompt on a terminal, stdin.
Passphrase input:
  --passphrase-file <path>, $%s, --ask-passphrase.

Exit codes: 0 ok, 1 error, 2 usage, 3 --expect mismatch, 127 wrong word count.
`, config.DefaultConfigFile(), wallet.MaxDerivationRounds, config.EnvMnemonic, config.EnvPassphrase)
}

// newFlagSet creates a subcommand flag set with the shared config flags.
func (c *cli) newFlagSet(name string) (*flag.FlagSet, *config.Flags) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	return fs, config.RegisterFlags(fs)
}

// setup parses args, resolves configuration and initializes logging.
func (c *cli) setup(fs *flag.FlagSet, cf *config.Flags, args []string) (*config.Config, error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected argument %q", errUsage, fs.Arg(0))
	}
	cf.MarkSet(fs)

	cfg, err := config.Load(cf, c.getenv)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errUsage, err)
	}
	klog.Output = c.stderr
	if err := klog.Init(cfg.Log.Level, cfg.Log.JSON, cfg.Log.File); err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	return cfg, nil
}
