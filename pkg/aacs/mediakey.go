package aacs

import (
	"bytes"
	"log/slog"

	"github.com/barnettlynn/libaacs-go/internal/keydb"
)

// pkVerificationPrefix is the plaintext the decrypted verification data
// must begin with for a (processing key, UV) pair to be accepted.
var pkVerificationPrefix = [8]byte{0x01, 0x23, 0x45, 0x67, 0x89, 0xAB, 0xCD, 0xEF}

// validateProcessingKey implements the AACS PK validation procedure:
//
//  1. mk := AES-128-ECB-decrypt(pk, cvalue)
//  2. XOR the last 4 bytes of mk with uv
//  3. dec := AES-128-ECB-decrypt(mk, verificationData)
//  4. accept iff dec[:8] == 01 23 45 67 89 AB CD EF
//
// On success it returns the candidate Media Key.
func validateProcessingKey(pk, cvalue []byte, uv [4]byte, verificationData []byte) (mk [16]byte, ok bool) {
	decrypted, err := aesECBDecrypt(pk, cvalue)
	if err != nil {
		return mk, false
	}
	copy(mk[:], decrypted)

	for i := 0; i < 4; i++ {
		mk[12+i] ^= uv[i]
	}

	dec, err := aesECBDecrypt(mk[:], verificationData)
	if err != nil {
		return mk, false
	}

	if !bytes.Equal(dec[:8], pkVerificationPrefix[:]) {
		return mk, false
	}
	return mk, true
}

// deriveMediaKey implements §4.5: if the session already has a Media Key
// (imported from the config entry), it succeeds immediately. Otherwise it
// opens the disc's MKB, enumerates UV/c-value pairs, and tries every
// (processing key, UV, c-value) triple from the key database until one
// validates.
func deriveMediaKey(s *Session, discPath string, db *keydb.Database) error {
	if s.mkSet {
		return nil
	}

	slog.Debug("aacs: deriving media key from MKB")

	m, err := openMKB(discPath)
	if err != nil {
		return err
	}

	subsetDiff := m.subsetDiffRecords()
	uvs := uvEntries(subsetDiff)

	cvalues := m.cvalues()
	numCvalues := len(cvalues) / 16

	// The count of UV entries established by walking record 0x04 must
	// equal the number of 16-byte c-values consumed from record 0x05.
	// This isn't guarded upstream; iterate to the shorter of the two.
	n := len(uvs)
	if numCvalues < n {
		n = numCvalues
	}
	if n == 0 {
		return ErrNoValidProcessingKey
	}

	verificationData, err := m.verificationData()
	if err != nil {
		return err
	}

	for _, pk := range db.ProcessingKeys {
		s.pk = pk
		for i := 0; i < n; i++ {
			cvalue := cvalues[i*16 : i*16+16]
			if mk, ok := validateProcessingKey(pk[:], cvalue, uvs[i], verificationData); ok {
				s.mk = mk
				s.mkSet = true
				slog.Debug("aacs: media key derived", "uv_index", i)
				return nil
			}
		}
	}

	return ErrNoValidProcessingKey
}
