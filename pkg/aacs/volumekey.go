package aacs

import (
	"log/slog"

	"github.com/barnettlynn/libaacs-go/internal/keydb"
)

// VIDReader is the narrow interface the core uses to obtain a disc's
// Volume ID from an authenticated drive session. internal/mmc is its
// production implementation; tests supply a fake.
type VIDReader interface {
	// ReadVID authenticates against the drive at discPath using the
	// given host credential fields and returns the 16-byte Volume ID.
	ReadVID(discPath string, priv, cert, nonce, keyPoint []byte) (vid [16]byte, ok bool)
}

// deriveVolumeUniqueKey implements §4.6. If the session already has a
// VUK, it succeeds immediately. If it already has a VID (from the config
// entry), it takes the fast path: vuk = AES-ECB-decrypt(mk, vid) XOR vid.
// Otherwise it iterates the key database's host credentials, opening an
// MMC session per credential until one yields a Volume ID.
func deriveVolumeUniqueKey(s *Session, discPath string, db *keydb.Database, reader VIDReader) error {
	if s.vukSet {
		return nil
	}

	slog.Debug("aacs: deriving volume unique key")

	if s.vidSet {
		computeVUK(s, s.vid)
		return nil
	}

	if reader == nil {
		return ErrNoVolumeID
	}

	for i, cred := range db.HostCredentials {
		vid, ok := reader.ReadVID(discPath, cred.PrivKey[:], cred.Cert[:], cred.Nonce[:], cred.KeyPoint[:])
		if !ok {
			continue
		}
		slog.Debug("aacs: volume id obtained from drive", "credential_index", i)
		s.vid = vid
		s.vidSet = true
		computeVUK(s, vid)
		return nil
	}

	return ErrNoVolumeID
}

// computeVUK sets s.vuk = AES-128-ECB-decrypt(s.mk, vid) XOR vid.
func computeVUK(s *Session, vid [16]byte) {
	decrypted, err := aesECBDecrypt(s.mk[:], vid[:])
	if err != nil {
		return
	}
	var vuk [16]byte
	xor16(vuk[:], decrypted, vid[:])
	s.vuk = vuk
	s.vukSet = true
}
