package aacs

import (
	"fmt"
	"os"
	"path/filepath"
)

// Record types recognized within a Media Key Block.
const (
	mkbTypeAndVersion  = 0x10
	mkbSubsetDiffIndex = 0x04
	mkbEncryptedCValue = 0x05
	mkbVerificationData = 0x81
	mkbSignature        = 0x02
)

// mkb is the parsed Media Key Block: an immutable byte buffer interpreted
// as a sequence of { type u8, length u24 BE (inclusive of the 4-byte
// header), payload } records. Records may appear in any order; the parser
// does not assume a fixed layout.
type mkb struct {
	buf []byte
}

// openMKB reads {discPath}/AACS/MKB_RO.inf into memory.
func openMKB(discPath string) (*mkb, error) {
	data, err := os.ReadFile(filepath.Join(discPath, "AACS", "MKB_RO.inf"))
	if err != nil {
		return nil, &DiscFilesError{Path: filepath.Join(discPath, "AACS", "MKB_RO.inf"), Cause: err}
	}
	return &mkb{buf: data}, nil
}

// record scans the record stream sequentially and returns the payload
// (everything after the 4-byte header) of the first record whose type
// byte equals typ, along with its total record length (header included).
// Iteration advances by the record's own length field, so malformed
// records with a zero or out-of-range length simply stop the scan rather
// than looping forever.
func (m *mkb) record(typ byte) (payload []byte, totalLen int, ok bool) {
	pos := 0
	for pos+4 <= len(m.buf) {
		length := int(m.buf[pos+1])<<16 | int(m.buf[pos+2])<<8 | int(m.buf[pos+3])
		if length < 4 || pos+length > len(m.buf) {
			break
		}
		if m.buf[pos] == typ {
			return m.buf[pos+4 : pos+length], length, true
		}
		pos += length
	}
	return nil, 0, false
}

// subsetDiffRecords returns the raw bytes of record 0x04 (the
// subset-difference index / UV list), or nil if absent.
func (m *mkb) subsetDiffRecords() []byte {
	payload, _, ok := m.record(mkbSubsetDiffIndex)
	if !ok {
		return nil
	}
	return payload
}

// cvalues returns the raw bytes of record 0x05 (encrypted c-values),
// or nil if absent.
func (m *mkb) cvalues() []byte {
	payload, _, ok := m.record(mkbEncryptedCValue)
	if !ok {
		return nil
	}
	return payload
}

// verificationData returns the 16-byte Media Key Verification Data from
// record 0x81, or an error if the record is absent or too short.
func (m *mkb) verificationData() ([]byte, error) {
	payload, _, ok := m.record(mkbVerificationData)
	if !ok {
		return nil, fmt.Errorf("aacs: MKB has no verification data record (0x81)")
	}
	if len(payload) < 16 {
		return nil, fmt.Errorf("aacs: MKB verification data record too short (%d bytes)", len(payload))
	}
	return payload[:16], nil
}

// typeAndVersion returns the MKB type and version from record 0x10.
func (m *mkb) typeAndVersion() (mkbType uint32, version uint32, err error) {
	payload, _, ok := m.record(mkbTypeAndVersion)
	if !ok {
		return 0, 0, fmt.Errorf("aacs: MKB has no type/version record (0x10)")
	}
	if len(payload) < 8 {
		return 0, 0, fmt.Errorf("aacs: MKB type/version record too short (%d bytes)", len(payload))
	}
	mkbType = be32(payload[0:4])
	version = be32(payload[4:8])
	return mkbType, version, nil
}

func be32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

// uvEntries walks the subset-difference record 5 bytes at a time and
// returns the list of 4-byte UV tags (byte 0 of each 5-byte entry is a
// continuation/terminator marker, not part of the UV itself).
// Enumeration stops at the first entry whose marker byte has
// either of its top two bits set, matching the original parser's
// terminator check.
func uvEntries(subsetDiff []byte) [][4]byte {
	var uvs [][4]byte
	for i := 0; i+5 <= len(subsetDiff); i += 5 {
		if subsetDiff[i]&0xC0 != 0 {
			break
		}
		var uv [4]byte
		copy(uv[:], subsetDiff[i+1:i+5])
		uvs = append(uvs, uv)
	}
	return uvs
}
