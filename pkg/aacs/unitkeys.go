package aacs

import (
	"encoding/binary"
	"io"
	"log/slog"
	"os"
)

// unitKeyTableEntryStride is the byte distance between successive
// 48-byte unit-key-table entries (each holding a 16-byte encrypted unit
// key at its start, followed by padding/metadata this reader ignores).
const unitKeyTableEntryStride = 48

// deriveUnitKeys implements §4.7. If unit keys were already populated
// (from the config entry), it succeeds immediately. Otherwise it requires
// a VUK to be present (vukSet), then reads the disc's Unit_Key_RO.inf key table and
// decrypts each entry under the VUK.
func deriveUnitKeys(s *Session, discPath string) error {
	if len(s.unitKeys) > 0 {
		return nil
	}
	if !s.vukSet {
		return ErrNoVolumeID
	}

	path := unitKeyFilePath(discPath)
	f, err := os.Open(path)
	if err != nil {
		return &DiscFilesError{Path: path, Cause: err}
	}
	defer f.Close()

	header := make([]byte, 4)
	if _, err := io.ReadFull(f, header); err != nil {
		return &DiscFilesError{Path: path, Cause: err}
	}
	tableOffset := int64(binary.BigEndian.Uint32(header))

	if _, err := f.Seek(tableOffset, io.SeekStart); err != nil {
		return &DiscFilesError{Path: path, Cause: err}
	}
	countBuf := make([]byte, 2)
	if _, err := io.ReadFull(f, countBuf); err != nil {
		return &DiscFilesError{Path: path, Cause: err}
	}
	numUKs := int(binary.BigEndian.Uint16(countBuf))

	uks := make([][16]byte, 0, numUKs)
	for i := 0; i < numUKs; i++ {
		entryPos := tableOffset + unitKeyTableEntryStride*int64(i+1)
		if _, err := f.Seek(entryPos, io.SeekStart); err != nil {
			break
		}
		encUK := make([]byte, 16)
		if _, err := io.ReadFull(f, encUK); err != nil {
			slog.Debug("aacs: unit key table truncated", "index", i)
			break
		}
		decrypted, err := aesECBDecrypt(s.vuk[:], encUK)
		if err != nil {
			break
		}
		var uk [16]byte
		copy(uk[:], decrypted)
		uks = append(uks, uk)
	}

	s.unitKeys = uks
	slog.Debug("aacs: unit keys derived", "count", len(uks))
	return nil
}
