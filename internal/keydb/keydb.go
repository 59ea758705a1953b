// Package keydb parses a KEYDB.cfg-style key database: the ordered lists
// of candidate processing keys, host certificates for MMC authentication,
// and disc-to-key entries that the AACS core consults before falling back
// to full key derivation.
//
// This parser is an external collaborator with respect to the AACS core
// (pkg/aacs): the core only ever sees the plain Database value produced
// here, never a YAML document. That keeps the core's key-derivation logic
// independent of config file format.
package keydb

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Database is the parsed, validated form of a key database config file.
type Database struct {
	ProcessingKeys  [][16]byte
	HostCredentials []HostCredential
	DiscEntries     []DiscEntry
}

// HostCredential is one device certificate chain used to authenticate an
// MMC session with a drive in order to read its Volume ID.
type HostCredential struct {
	PrivKey  [20]byte
	Cert     [92]byte
	Nonce    [20]byte
	KeyPoint [40]byte
}

// DiscEntry maps a disc hash to pre-provided key material. Any subset of
// MK, VID, VUK, and UnitKeys may be present; the *Set fields record which
// were actually supplied so the core never has to guess "zero means
// unset" for a legitimately-zero key.
type DiscEntry struct {
	DiscID [20]byte

	MK    [16]byte
	MKSet bool

	VID    [16]byte
	VIDSet bool

	VUK    [16]byte
	VUKSet bool

	UnitKeys [][16]byte
}

// rawConfig mirrors the YAML document shape; hex strings are decoded and
// length-checked in Load.
type rawConfig struct {
	ProcessingKeys  []string         `yaml:"processing_keys"`
	HostCredentials []rawHostCred    `yaml:"host_credentials"`
	DiscEntries     []rawDiscEntry   `yaml:"disc_entries"`
}

type rawHostCred struct {
	PrivKey  string `yaml:"priv_key"`
	Cert     string `yaml:"cert"`
	Nonce    string `yaml:"nonce"`
	KeyPoint string `yaml:"key_point"`
}

type rawDiscEntry struct {
	DiscID   string   `yaml:"disc_id"`
	MK       string   `yaml:"mk"`
	VID      string   `yaml:"vid"`
	VUK      string   `yaml:"vuk"`
	UnitKeys []string `yaml:"unit_keys"`
}

// Load reads and validates a key database config file at path.
func Load(path string) (*Database, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("keydb: read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)

	var raw rawConfig
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("keydb: parse config yaml: %w", err)
	}

	return raw.toDatabase()
}

func (raw rawConfig) toDatabase() (*Database, error) {
	db := &Database{}

	for i, hexKey := range raw.ProcessingKeys {
		key, err := decodeFixed16(hexKey)
		if err != nil {
			return nil, fmt.Errorf("keydb: processing_keys[%d]: %w", i, err)
		}
		db.ProcessingKeys = append(db.ProcessingKeys, key)
	}

	for i, rc := range raw.HostCredentials {
		hc, err := rc.toHostCredential()
		if err != nil {
			return nil, fmt.Errorf("keydb: host_credentials[%d]: %w", i, err)
		}
		db.HostCredentials = append(db.HostCredentials, hc)
	}

	for i, re := range raw.DiscEntries {
		de, err := re.toDiscEntry()
		if err != nil {
			return nil, fmt.Errorf("keydb: disc_entries[%d]: %w", i, err)
		}
		db.DiscEntries = append(db.DiscEntries, de)
	}

	return db, nil
}

func (rc rawHostCred) toHostCredential() (HostCredential, error) {
	var hc HostCredential
	if err := decodeFixed(rc.PrivKey, hc.PrivKey[:]); err != nil {
		return hc, fmt.Errorf("priv_key: %w", err)
	}
	if err := decodeFixed(rc.Cert, hc.Cert[:]); err != nil {
		return hc, fmt.Errorf("cert: %w", err)
	}
	if err := decodeFixed(rc.Nonce, hc.Nonce[:]); err != nil {
		return hc, fmt.Errorf("nonce: %w", err)
	}
	if err := decodeFixed(rc.KeyPoint, hc.KeyPoint[:]); err != nil {
		return hc, fmt.Errorf("key_point: %w", err)
	}
	return hc, nil
}

func (re rawDiscEntry) toDiscEntry() (DiscEntry, error) {
	var de DiscEntry
	if err := decodeFixed(re.DiscID, de.DiscID[:]); err != nil {
		return de, fmt.Errorf("disc_id: %w", err)
	}

	if re.MK != "" {
		if err := decodeFixed(re.MK, de.MK[:]); err != nil {
			return de, fmt.Errorf("mk: %w", err)
		}
		de.MKSet = true
	}
	if re.VID != "" {
		if err := decodeFixed(re.VID, de.VID[:]); err != nil {
			return de, fmt.Errorf("vid: %w", err)
		}
		de.VIDSet = true
	}
	if re.VUK != "" {
		if err := decodeFixed(re.VUK, de.VUK[:]); err != nil {
			return de, fmt.Errorf("vuk: %w", err)
		}
		de.VUKSet = true
	}
	for i, ukHex := range re.UnitKeys {
		uk, err := decodeFixed16(ukHex)
		if err != nil {
			return de, fmt.Errorf("unit_keys[%d]: %w", i, err)
		}
		de.UnitKeys = append(de.UnitKeys, uk)
	}

	return de, nil
}

func decodeFixed16(s string) ([16]byte, error) {
	var out [16]byte
	err := decodeFixed(s, out[:])
	return out, err
}

func decodeFixed(s string, dst []byte) error {
	if len(s) != len(dst)*2 {
		return fmt.Errorf("expected %d hex chars, got %d", len(dst)*2, len(s))
	}
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("invalid hex: %w", err)
	}
	copy(dst, decoded)
	return nil
}
