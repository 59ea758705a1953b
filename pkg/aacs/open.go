package aacs

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/barnettlynn/libaacs-go/internal/keydb"
	"github.com/barnettlynn/libaacs-go/internal/mmc"
)

// configSearchPaths returns the default key database locations to try,
// in order, when no explicit config path is given: $HOME/.libaacs/KEYDB.cfg
// then /etc/libaacs/KEYDB.cfg. Overridable in tests.
var configSearchPaths = func() []string {
	home, _ := os.UserHomeDir()
	var paths []string
	if home != "" {
		paths = append(paths, filepath.Join(home, ".libaacs", "KEYDB.cfg"))
	}
	paths = append(paths, filepath.Join("/etc", "libaacs", "KEYDB.cfg"))
	return paths
}

// resolveConfigPath implements the lookup order from §6: explicit
// argument first, then the default search paths, first readable wins.
func resolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	for _, p := range configSearchPaths() {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", ErrConfigMissing
}

// mmcReader adapts internal/mmc to the VIDReader interface the core
// consumes, opening and closing one MMC session per host credential
// attempted, matching the original mmc_open/mmc_read_vid/mmc_close
// sequencing.
type mmcReader struct {
	readerIndex int
}

func (r mmcReader) ReadVID(discPath string, priv, cert, nonce, keyPoint []byte) ([16]byte, bool) {
	sess, err := mmc.Open(r.readerIndex, priv, cert, nonce, keyPoint)
	if err != nil {
		return [16]byte{}, false
	}
	defer sess.Close()
	return sess.ReadVID()
}

// Open constructs a Session for the disc at discPath, using the key
// database at configPath (or the default search locations if empty), and
// drive reader index 0 for any MMC authentication needed during Volume
// Unique Key derivation. It returns nil and an error on any fatal
// condition, per §7's propagation policy.
func Open(discPath, configPath string) (*Session, error) {
	return OpenWithReader(discPath, configPath, mmcReader{readerIndex: 0})
}

// OpenWithReader is Open with an injectable VIDReader, used by tests and
// by callers that need a non-default drive selection.
func OpenWithReader(discPath, configPath string, reader VIDReader) (*Session, error) {
	path, err := resolveConfigPath(configPath)
	if err != nil {
		return nil, err
	}

	db, err := keydb.Load(path)
	if err != nil {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return nil, ErrConfigMissing
		}
		return nil, ErrConfigMalformed
	}

	s := &Session{config: db}

	hash, err := discHash(discPath)
	if err != nil {
		Close(s)
		return nil, err
	}

	matched := matchConfigEntry(s, db, hash)

	if matched.HaveAllUnitKeys() {
		slog.Info("aacs: disc opened from config entry, waterfall skipped")
		s.releaseTransient()
		return s, nil
	}

	slog.Debug("aacs: starting key derivation waterfall")

	if err := deriveMediaKey(s, discPath, db); err != nil {
		Close(s)
		if !matched.Found {
			return nil, ErrNoMatchingEntry
		}
		return nil, err
	}
	if err := deriveVolumeUniqueKey(s, discPath, db, reader); err != nil {
		Close(s)
		return nil, err
	}
	if err := deriveUnitKeys(s, discPath); err != nil {
		Close(s)
		return nil, err
	}

	slog.Info("aacs: disc opened", "unit_keys", len(s.unitKeys))
	s.releaseTransient()
	return s, nil
}
