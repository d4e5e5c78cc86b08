package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Klingon-tech/ledger2master/config"
	klog "github.com/Klingon-tech/ledger2master/internal/log"
	"github.com/Klingon-tech/ledger2master/internal/wallet"
)

// keyOutput is the json rendering of a derived root key.
type keyOutput struct {
	MasterKey   string `json:"master_key"`
	RootXSK     string `json:"root_xsk"`
	RootXVK     string `json:"root_xvk"`
	Fingerprint string `json:"fingerprint"`
	Expected    string `json:"expected,omitempty"`
	Match       *bool  `json:"match,omitempty"`
}

// xvkOutput is the json rendering of a root public key.
type xvkOutput struct {
	XPub        string `json:"xpub"`
	RootXVK     string `json:"root_xvk"`
	Fingerprint string `json:"fingerprint"`
}

func newKeyOutput(m *wallet.MasterKey) (*keyOutput, error) {
	xsk, err := m.Bech32()
	if err != nil {
		return nil, fmt.Errorf("encode root_xsk: %w", err)
	}
	x, err := newXVKOutput(m)
	if err != nil {
		return nil, err
	}
	return &keyOutput{
		MasterKey:   m.Hex(),
		RootXSK:     xsk,
		RootXVK:     x.RootXVK,
		Fingerprint: x.Fingerprint,
	}, nil
}

func newXVKOutput(m *wallet.MasterKey) (*xvkOutput, error) {
	xpub, err := m.PublicKey()
	if err != nil {
		return nil, fmt.Errorf("derive public key: %w", err)
	}
	xvk, err := xpub.Bech32()
	if err != nil {
		return nil, fmt.Errorf("encode root_xvk: %w", err)
	}
	return &xvkOutput{
		XPub:        xpub.String(),
		RootXVK:     xvk,
		Fingerprint: xpub.Fingerprint(),
	}, nil
}

// deriveMaster reads the mnemonic and passphrase and runs the derivation.
func (c *cli) deriveMaster(cfg *config.Config, sf *secretFlags) (*wallet.MasterKey, error) {
	mnemonic, err := c.readMnemonic(sf)
	if err != nil {
		return nil, err
	}
	if err := checkMnemonic(mnemonic, cfg.Mnemonic.Strict); err != nil {
		return nil, err
	}
	passphrase, err := c.readPassphrase(sf)
	if err != nil {
		return nil, err
	}

	done := klog.Benchmark("derive master key")
	seed, err := wallet.SeedFromMnemonic(mnemonic, passphrase)
	if err != nil {
		return nil, err
	}
	defer seed.Wipe()

	m, rounds, err := wallet.NewMasterKeyBounded(seed, cfg.Derive.MaxRounds)
	done()
	if err != nil {
		klog.CLI.Error().Int("rounds", rounds).Msg("Extended key derivation failed")
		return nil, err
	}

	if e := klog.CLI.Debug(); e.Enabled() {
		if xpub, err := m.PublicKey(); err == nil {
			e = e.Str("fingerprint", xpub.Fingerprint())
		}
		e.Int("rounds", rounds).
			Bool("passphrase", passphrase != "").
			Msg("Master key derived")
	}
	return m, nil
}

func (c *cli) cmdDerive(args []string) error {
	fs, cf := c.newFlagSet("derive")
	sf := registerSecretFlags(fs)
	expect := fs.String("expect", "", "Reference master key (hex or root_xsk); exit 3 on mismatch")
	cfg, err := c.setup(fs, cf, args)
	if err != nil {
		return err
	}

	m, err := c.deriveMaster(cfg, sf)
	if err != nil {
		return err
	}
	defer m.Wipe()

	out, err := newKeyOutput(m)
	if err != nil {
		return err
	}

	match := true
	if *expect != "" {
		out.Expected = strings.ToLower(strings.TrimSpace(*expect))
		match = out.Expected == out.MasterKey || out.Expected == out.RootXSK
		out.Match = &match
	}

	switch cfg.Output.Format {
	case config.FormatJSON:
		if err := c.printJSON(out); err != nil {
			return err
		}
	case config.FormatBech32:
		fmt.Fprintln(c.stdout, out.RootXSK)
	default:
		fmt.Fprintln(c.stdout, out.MasterKey)
	}
	if out.Expected != "" && cfg.Output.Format != config.FormatJSON {
		fmt.Fprintf(c.stdout, "expected %s\n", out.Expected)
	}

	if !match {
		return errExpectMismatch
	}
	return nil
}

func (c *cli) cmdXVK(args []string) error {
	fs, cf := c.newFlagSet("xvk")
	sf := registerSecretFlags(fs)
	masterFile := fs.String("master-file", "", "Read a hex or root_xsk master key instead of a mnemonic")
	cfg, err := c.setup(fs, cf, args)
	if err != nil {
		return err
	}

	var m *wallet.MasterKey
	if *masterFile != "" {
		m, err = readMasterFile(*masterFile)
	} else {
		m, err = c.deriveMaster(cfg, sf)
	}
	if err != nil {
		return err
	}
	defer m.Wipe()

	out, err := newXVKOutput(m)
	if err != nil {
		return err
	}

	switch cfg.Output.Format {
	case config.FormatJSON:
		return c.printJSON(out)
	case config.FormatBech32:
		fmt.Fprintln(c.stdout, out.RootXVK)
	default:
		fmt.Fprintln(c.stdout, out.XPub)
	}
	return nil
}

// readMasterFile parses a master key stored as hex or root_xsk.
func readMasterFile(path string) (*wallet.MasterKey, error) {
	b, err := readSecretFile(path)
	if err != nil {
		return nil, fmt.Errorf("read master key file: %w", err)
	}
	defer wipe(b)
	s := strings.TrimSpace(string(b))
	if strings.HasPrefix(strings.ToLower(s), "root_xsk1") {
		return wallet.MasterKeyFromBech32(s)
	}
	return wallet.ParseMasterKey(s)
}

func (c *cli) printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(c.stdout, string(data))
	return err
}
