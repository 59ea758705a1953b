package aacs

import (
	"testing"

	"github.com/barnettlynn/libaacs-go/internal/keydb"
)

type fakeVIDReader struct {
	calls int
	vid   [16]byte
	ok    bool
}

func (f *fakeVIDReader) ReadVID(discPath string, priv, cert, nonce, keyPoint []byte) ([16]byte, bool) {
	f.calls++
	return f.vid, f.ok
}

func TestDeriveVolumeUniqueKeySkipsWhenAlreadySet(t *testing.T) {
	s := &Session{vukSet: true}
	reader := &fakeVIDReader{}

	if err := deriveVolumeUniqueKey(s, "/disc", &keydb.Database{}, reader); err != nil {
		t.Fatalf("expected no-op success, got %v", err)
	}
	if reader.calls != 0 {
		t.Fatalf("expected reader not to be invoked when VUK already set")
	}
}

func TestDeriveVolumeUniqueKeyFastPathWhenVIDSet(t *testing.T) {
	var mk [16]byte
	mk[0] = 0x11
	var vid [16]byte
	vid[0] = 0x22

	s := &Session{mk: mk, vid: vid, vidSet: true}
	reader := &fakeVIDReader{}

	if err := deriveVolumeUniqueKey(s, "/disc", &keydb.Database{}, reader); err != nil {
		t.Fatalf("deriveVolumeUniqueKey: %v", err)
	}
	if reader.calls != 0 {
		t.Fatalf("expected MMC reader not to be consulted when VID already known, got %d calls", reader.calls)
	}
	if !s.vukSet {
		t.Fatalf("expected vukSet after fast path")
	}

	decrypted, err := aesECBDecrypt(mk[:], vid[:])
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	var want [16]byte
	xor16(want[:], decrypted, vid[:])
	if s.vuk != want {
		t.Fatalf("vuk mismatch: got %x want %x", s.vuk, want)
	}
}

func TestDeriveVolumeUniqueKeySlowPathQueriesDrive(t *testing.T) {
	var mk [16]byte
	mk[0] = 0x33
	var vid [16]byte
	vid[0] = 0x44

	db := &keydb.Database{HostCredentials: []keydb.HostCredential{{}, {}}}
	reader := &fakeVIDReader{vid: vid, ok: true}

	s := &Session{mk: mk}
	if err := deriveVolumeUniqueKey(s, "/disc", db, reader); err != nil {
		t.Fatalf("deriveVolumeUniqueKey: %v", err)
	}
	if reader.calls != 1 {
		t.Fatalf("expected exactly one reader call on first success, got %d", reader.calls)
	}
	if !s.vidSet || s.vid != vid {
		t.Fatalf("expected vid to be recorded from drive read")
	}
	if !s.vukSet {
		t.Fatalf("expected vuk to be derived")
	}
}

func TestDeriveVolumeUniqueKeyFailsWhenNoCredentialWorks(t *testing.T) {
	db := &keydb.Database{HostCredentials: []keydb.HostCredential{{}, {}}}
	reader := &fakeVIDReader{ok: false}

	s := &Session{}
	if err := deriveVolumeUniqueKey(s, "/disc", db, reader); err != ErrNoVolumeID {
		t.Fatalf("expected ErrNoVolumeID, got %v", err)
	}
	if reader.calls != 2 {
		t.Fatalf("expected all %d credentials to be tried, got %d calls", len(db.HostCredentials), reader.calls)
	}
}

func TestDeriveVolumeUniqueKeyFailsWithNilReader(t *testing.T) {
	db := &keydb.Database{HostCredentials: []keydb.HostCredential{{}}}
	s := &Session{}
	if err := deriveVolumeUniqueKey(s, "/disc", db, nil); err != ErrNoVolumeID {
		t.Fatalf("expected ErrNoVolumeID with nil reader, got %v", err)
	}
}
