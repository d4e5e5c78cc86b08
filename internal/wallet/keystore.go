package wallet

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	klog "github.com/Klingon-tech/ledger2master/internal/log"
	"github.com/rs/zerolog"
)

const (
	keystoreVersion = 1
	keyFileExt      = ".xsk"
)

var (
	// ErrKeyNotFound is returned when no key file exists under a name.
	ErrKeyNotFound = errors.New("key not found")

	// ErrKeyExists is returned when creating a key under a taken name.
	ErrKeyExists = errors.New("key already exists")

	validKeyName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,63}$`)
)

// keystoreFile is the on-disk JSON format for an encrypted master key.
// The root_xvk is authenticated as associated data, so editing it breaks
// decryption.
type keystoreFile struct {
	Version      int       `json:"version"`
	CreatedAt    time.Time `json:"created_at"`
	Fingerprint  string    `json:"fingerprint"`
	XPub         string    `json:"root_xvk"`
	EncryptedKey []byte    `json:"encrypted_key"`
}

// KeyInfo is the public metadata of a stored key.
type KeyInfo struct {
	Name        string    `json:"name"`
	Fingerprint string    `json:"fingerprint"`
	XPub        string    `json:"root_xvk"`
	CreatedAt   time.Time `json:"created_at"`
}

// Keystore manages encrypted master keys on disk.
type Keystore struct {
	path   string
	logger zerolog.Logger
}

// NewKeystore creates a keystore that reads/writes to the given directory.
// The directory is created if it doesn't exist.
func NewKeystore(path string) (*Keystore, error) {
	if err := os.MkdirAll(path, 0700); err != nil {
		return nil, fmt.Errorf("create keystore dir: %w", err)
	}
	return &Keystore{
		path:   path,
		logger: klog.Keystore,
	}, nil
}

// Path returns the keystore directory.
func (ks *Keystore) Path() string {
	return ks.path
}

func (ks *Keystore) keyPath(name string) (string, error) {
	if !validKeyName.MatchString(name) {
		return "", fmt.Errorf("invalid key name %q", name)
	}
	return filepath.Join(ks.path, name+keyFileExt), nil
}

// Create seals master under password and writes it as name.
func (ks *Keystore) Create(name string, master *MasterKey, password []byte, params EncryptionParams) (KeyInfo, error) {
	path, err := ks.keyPath(name)
	if err != nil {
		return KeyInfo{}, err
	}
	if _, err := os.Stat(path); err == nil {
		return KeyInfo{}, fmt.Errorf("%w: %q", ErrKeyExists, name)
	}

	xpub, err := master.PublicKey()
	if err != nil {
		return KeyInfo{}, fmt.Errorf("derive public key: %w", err)
	}
	xvk, err := xpub.Bech32()
	if err != nil {
		return KeyInfo{}, fmt.Errorf("encode public key: %w", err)
	}

	encrypted, err := Encrypt(master[:], password, []byte(xvk), params)
	if err != nil {
		return KeyInfo{}, fmt.Errorf("encrypt key: %w", err)
	}

	kf := keystoreFile{
		Version:      keystoreVersion,
		CreatedAt:    time.Now().UTC(),
		Fingerprint:  xpub.Fingerprint(),
		XPub:         xvk,
		EncryptedKey: encrypted,
	}
	if err := writeKeyFile(path, &kf); err != nil {
		return KeyInfo{}, err
	}

	ks.logger.Info().
		Str("name", name).
		Str("fingerprint", kf.Fingerprint).
		Msg("Master key stored")
	return kf.info(name), nil
}

// Load decrypts the key stored as name.
func (ks *Keystore) Load(name string, password []byte) (*MasterKey, error) {
	kf, err := ks.read(name)
	if err != nil {
		return nil, err
	}

	plain, err := Decrypt(kf.EncryptedKey, password, []byte(kf.XPub))
	if err != nil {
		return nil, fmt.Errorf("decrypt key %q: %w", name, err)
	}
	defer wipe(plain)
	if len(plain) != MasterKeySize {
		return nil, fmt.Errorf("%w: stored key has %d bytes", ErrInvalidMasterKey, len(plain))
	}

	var m MasterKey
	copy(m[:], plain)
	if !m.Clamped() {
		m.Wipe()
		return nil, fmt.Errorf("%w: stored key is not clamped", ErrInvalidMasterKey)
	}

	ks.logger.Debug().
		Str("name", name).
		Str("fingerprint", kf.Fingerprint).
		Msg("Master key loaded")
	return &m, nil
}

// Info returns the public metadata of name without decrypting it.
func (ks *Keystore) Info(name string) (KeyInfo, error) {
	kf, err := ks.read(name)
	if err != nil {
		return KeyInfo{}, err
	}
	return kf.info(name), nil
}

// List returns metadata for every key in the keystore, sorted by name.
func (ks *Keystore) List() ([]KeyInfo, error) {
	entries, err := os.ReadDir(ks.path)
	if err != nil {
		return nil, fmt.Errorf("read keystore dir: %w", err)
	}

	var infos []KeyInfo
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != keyFileExt {
			continue
		}
		name := strings.TrimSuffix(e.Name(), keyFileExt)
		info, err := ks.Info(name)
		if err != nil {
			ks.logger.Warn().Err(err).Str("file", e.Name()).Msg("Skipping unreadable key file")
			continue
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// Delete removes a key file.
func (ks *Keystore) Delete(name string) error {
	path, err := ks.keyPath(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %q", ErrKeyNotFound, name)
		}
		return fmt.Errorf("delete key: %w", err)
	}
	ks.logger.Info().Str("name", name).Msg("Master key deleted")
	return nil
}

func (ks *Keystore) read(name string) (*keystoreFile, error) {
	path, err := ks.keyPath(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %q", ErrKeyNotFound, name)
		}
		return nil, fmt.Errorf("read key: %w", err)
	}
	var kf keystoreFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return nil, fmt.Errorf("parse key file: %w", err)
	}
	if kf.Version != keystoreVersion {
		return nil, fmt.Errorf("unsupported key file version: %d", kf.Version)
	}
	return &kf, nil
}

func (kf *keystoreFile) info(name string) KeyInfo {
	return KeyInfo{
		Name:        name,
		Fingerprint: kf.Fingerprint,
		XPub:        kf.XPub,
		CreatedAt:   kf.CreatedAt,
	}
}

func writeKeyFile(path string, kf *keystoreFile) error {
	data, err := json.MarshalIndent(kf, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal key file: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("%w: %s", ErrKeyExists, filepath.Base(path))
		}
		return fmt.Errorf("create key file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("write key file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("close key file: %w", err)
	}
	return nil
}
