package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Klingon-tech/ledger2master/config"
	klog "github.com/Klingon-tech/ledger2master/internal/log"
	"github.com/Klingon-tech/ledger2master/internal/wallet"
)

func (c *cli) cmdGenerate(args []string) error {
	fs, cf := c.newFlagSet("generate")
	cfg, err := c.setup(fs, cf, args)
	if err != nil {
		return err
	}

	mnemonic, err := wallet.GenerateMnemonic()
	if err != nil {
		return err
	}

	if cfg.Output.Format == config.FormatJSON {
		return c.printJSON(struct {
			Mnemonic string `json:"mnemonic"`
			Words    int    `json:"words"`
		}{mnemonic, wallet.MnemonicWordCount})
	}
	fmt.Fprintln(c.stdout, mnemonic)
	return nil
}

func (c *cli) cmdValidate(args []string) error {
	fs, cf := c.newFlagSet("validate")
	sf := registerSecretFlags(fs)
	cfg, err := c.setup(fs, cf, args)
	if err != nil {
		return err
	}

	mnemonic, err := c.readMnemonic(sf)
	if err != nil {
		return err
	}
	words := len(wallet.MnemonicWords(mnemonic))
	checksum := wallet.ValidateMnemonic(mnemonic)

	if cfg.Output.Format == config.FormatJSON {
		if err := c.printJSON(struct {
			Words    int  `json:"words"`
			Checksum bool `json:"checksum"`
		}{words, checksum}); err != nil {
			return err
		}
	}

	if words != wallet.MnemonicWordCount {
		return fmt.Errorf("%w, got %d", wallet.ErrInvalidMnemonicLength, words)
	}
	if !checksum {
		return wallet.ErrInvalidMnemonic
	}
	if cfg.Output.Format != config.FormatJSON {
		fmt.Fprintf(c.stdout, "valid: %d words, checksum ok\n", words)
	}
	return nil
}

func (c *cli) cmdExport(args []string) error {
	fs, cf := c.newFlagSet("export")
	sf := registerSecretFlags(fs)
	name := fs.String("name", "", "Key name")
	passwordFile := fs.String("password-file", "", "Read the keystore password from a file")
	cfg, err := c.setup(fs, cf, args)
	if err != nil {
		return err
	}
	if *name == "" {
		return fmt.Errorf("%w: ledger2master export --name <name>", errUsage)
	}

	ks, err := wallet.NewKeystore(cfg.Keystore.Dir)
	if err != nil {
		return err
	}

	m, err := c.deriveMaster(cfg, sf)
	if err != nil {
		return err
	}
	defer m.Wipe()

	password, err := c.readNewPassword(*passwordFile)
	if err != nil {
		return err
	}
	defer wipe(password)

	info, err := ks.Create(*name, m, password, c.kdfParams)
	if err != nil {
		return fmt.Errorf("store key: %w", err)
	}
	return c.printKeyInfo(cfg, info)
}

func (c *cli) cmdKeystore(args []string) error {
	const usage = "ledger2master keystore <list|show|delete> [flags]"
	if len(args) < 1 {
		return fmt.Errorf("%w: %s", errUsage, usage)
	}

	switch args[0] {
	case "list":
		return c.cmdKeystoreList(args[1:])
	case "show":
		return c.cmdKeystoreShow(args[1:])
	case "delete":
		return c.cmdKeystoreDelete(args[1:])
	default:
		return fmt.Errorf("%w: unknown keystore command %q\n%s", errUsage, args[0], usage)
	}
}

func (c *cli) openKeystore(cfg *config.Config) (*wallet.Keystore, error) {
	ks, err := wallet.NewKeystore(cfg.Keystore.Dir)
	if err != nil {
		return nil, fmt.Errorf("open keystore: %w", err)
	}
	return ks, nil
}

func (c *cli) cmdKeystoreList(args []string) error {
	fs, cf := c.newFlagSet("keystore list")
	cfg, err := c.setup(fs, cf, args)
	if err != nil {
		return err
	}
	ks, err := c.openKeystore(cfg)
	if err != nil {
		return err
	}

	infos, err := ks.List()
	if err != nil {
		return err
	}

	if cfg.Output.Format == config.FormatJSON {
		if infos == nil {
			infos = []wallet.KeyInfo{}
		}
		return c.printJSON(infos)
	}
	if len(infos) == 0 {
		fmt.Fprintln(c.stdout, "No keys found.")
		return nil
	}
	for _, info := range infos {
		fmt.Fprintf(c.stdout, "%-20s %s  %s\n", info.Name, info.Fingerprint, info.XPub)
	}
	return nil
}

func (c *cli) cmdKeystoreShow(args []string) error {
	fs, cf := c.newFlagSet("keystore show")
	name := fs.String("name", "", "Key name")
	reveal := fs.Bool("reveal", false, "Decrypt and print the master key")
	passwordFile := fs.String("password-file", "", "Read the keystore password from a file")
	cfg, err := c.setup(fs, cf, args)
	if err != nil {
		return err
	}
	if *name == "" {
		return fmt.Errorf("%w: ledger2master keystore show --name <name> [--reveal]", errUsage)
	}
	ks, err := c.openKeystore(cfg)
	if err != nil {
		return err
	}

	if !*reveal {
		info, err := ks.Info(*name)
		if err != nil {
			return err
		}
		return c.printKeyInfo(cfg, info)
	}

	password, err := c.readExistingPassword(*passwordFile)
	if err != nil {
		return err
	}
	defer wipe(password)

	m, err := ks.Load(*name, password)
	if err != nil {
		return err
	}
	defer m.Wipe()

	out, err := newKeyOutput(m)
	if err != nil {
		return err
	}
	switch cfg.Output.Format {
	case config.FormatJSON:
		return c.printJSON(out)
	case config.FormatBech32:
		fmt.Fprintln(c.stdout, out.RootXSK)
	default:
		fmt.Fprintln(c.stdout, out.MasterKey)
	}
	return nil
}

func (c *cli) cmdKeystoreDelete(args []string) error {
	fs, cf := c.newFlagSet("keystore delete")
	name := fs.String("name", "", "Key name")
	cfg, err := c.setup(fs, cf, args)
	if err != nil {
		return err
	}
	if *name == "" {
		return fmt.Errorf("%w: ledger2master keystore delete --name <name>", errUsage)
	}
	ks, err := c.openKeystore(cfg)
	if err != nil {
		return err
	}
	if err := ks.Delete(*name); err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "Deleted: %s\n", *name)
	return nil
}

func (c *cli) printKeyInfo(cfg *config.Config, info wallet.KeyInfo) error {
	if cfg.Output.Format == config.FormatJSON {
		return c.printJSON(info)
	}
	fmt.Fprintf(c.stdout, "Name:        %s\n", info.Name)
	fmt.Fprintf(c.stdout, "Fingerprint: %s\n", info.Fingerprint)
	fmt.Fprintf(c.stdout, "root_xvk:    %s\n", info.XPub)
	fmt.Fprintf(c.stdout, "Created:     %s\n", info.CreatedAt.Format(time.RFC3339))
	return nil
}

func (c *cli) cmdSelfTest(args []string) error {
	fs, cf := c.newFlagSet("selftest")
	if _, err := c.setup(fs, cf, args); err != nil {
		return err
	}

	err := wallet.SelfTest(func(name string, err error) {
		if err != nil {
			fmt.Fprintf(c.stdout, "FAIL  %s: %v\n", name, err)
			return
		}
		fmt.Fprintf(c.stdout, "ok    %s\n", name)
	})
	if err != nil {
		klog.CLI.Error().Err(err).Msg("Self-test failed")
		return err
	}
	return nil
}

func (c *cli) cmdInitConfig(args []string) error {
	fs, cf := c.newFlagSet("init-config")
	output := fs.String("output", "", "Destination (default: the standard config path)")
	if _, err := c.setup(fs, cf, args); err != nil {
		return err
	}

	path := *output
	if path == "" {
		path = config.DefaultConfigFile()
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := config.WriteDefaultConfig(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	fmt.Fprintf(c.stdout, "Wrote %s\n", path)
	return nil
}
