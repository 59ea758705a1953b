package aacs

import "testing"

// TestValidateProcessingKeyAcceptsValidTriple builds a fixture following
// spec scenario 3: pk is all-zero, cvalue = AES-ECB-encrypt(pk, mkTrial),
// and mkTrial is chosen so that XORing its last 4 bytes with uv yields a
// media key whose ECB decryption of vd starts with the AACS verification
// prefix.
func TestValidateProcessingKeyAcceptsValidTriple(t *testing.T) {
	pk := make([]byte, 16) // all-zero processing key

	// Pick an arbitrary "true" media key and derive mkTrial such that
	// mkTrial XOR-last4(uv) == mk.
	uv := [4]byte{0xAA, 0xBB, 0xCC, 0xDD}
	mk := make([]byte, 16)
	for i := range mk {
		mk[i] = byte(i + 1)
	}

	mkTrial := append([]byte(nil), mk...)
	for i := 0; i < 4; i++ {
		mkTrial[12+i] ^= uv[i]
	}

	cvalue, err := aesECBEncrypt(pk, mkTrial)
	if err != nil {
		t.Fatalf("encrypt cvalue: %v", err)
	}

	vdPlain := append([]byte{0x01, 0x23, 0x45, 0x67, 0x89, 0xAB, 0xCD, 0xEF}, make([]byte, 8)...)
	vd, err := aesECBEncrypt(mk, vdPlain)
	if err != nil {
		t.Fatalf("encrypt vd: %v", err)
	}

	gotMK, ok := validateProcessingKey(pk, cvalue, uv, vd)
	if !ok {
		t.Fatalf("expected validation to succeed")
	}
	for i := range mk {
		if gotMK[i] != mk[i] {
			t.Fatalf("derived mk mismatch at byte %d: got %x want %x", i, gotMK[:], mk)
		}
	}
}

func TestValidateProcessingKeyRejectsWrongKey(t *testing.T) {
	pk := make([]byte, 16)
	wrongPK := make([]byte, 16)
	wrongPK[0] = 0x01

	cvalue, _ := aesECBEncrypt(pk, make([]byte, 16))
	vd, _ := aesECBEncrypt(make([]byte, 16), make([]byte, 16))

	if _, ok := validateProcessingKey(wrongPK, cvalue, [4]byte{}, vd); ok {
		t.Fatalf("expected validation to fail for wrong processing key")
	}
}

func TestDeriveMediaKeySkipsWhenAlreadySet(t *testing.T) {
	s := &Session{mkSet: true}
	s.mk = [16]byte{1, 2, 3}

	if err := deriveMediaKey(s, "/nonexistent", nil); err != nil {
		t.Fatalf("expected no-op success when mk already set, got %v", err)
	}
}
