package main

import (
	"bytes"
	"testing"

	"github.com/barnettlynn/libaacs-go/pkg/aacs"
)

func TestDumpStreamPassesThroughClearUnits(t *testing.T) {
	unit := make([]byte, aacs.AlignedUnitLen)
	unit[0] = 0x00 // CPI = 00, already clear

	in := bytes.NewReader(append(append([]byte{}, unit...), unit...))
	var out bytes.Buffer

	s := &aacs.Session{}
	if err := dumpStream(s, in, &out); err != nil {
		t.Fatalf("dumpStream: %v", err)
	}
	if out.Len() != 2*aacs.AlignedUnitLen {
		t.Fatalf("expected two units written, got %d bytes", out.Len())
	}
}

func TestDumpStreamDiscardsTrailingPartialUnit(t *testing.T) {
	unit := make([]byte, aacs.AlignedUnitLen)
	partial := make([]byte, 100)

	in := bytes.NewReader(append(append([]byte{}, unit...), partial...))
	var out bytes.Buffer

	s := &aacs.Session{}
	if err := dumpStream(s, in, &out); err != nil {
		t.Fatalf("dumpStream: %v", err)
	}
	if out.Len() != aacs.AlignedUnitLen {
		t.Fatalf("expected exactly one full unit written, got %d bytes", out.Len())
	}
}

func TestDumpStreamSkipsUndecryptableUnitAndContinues(t *testing.T) {
	bad := make([]byte, aacs.AlignedUnitLen)
	bad[0] = 0xC0 // encrypted, but no unit keys available
	good := make([]byte, aacs.AlignedUnitLen)
	good[0] = 0x00 // clear

	in := bytes.NewReader(append(append([]byte{}, bad...), good...))
	var out bytes.Buffer

	s := &aacs.Session{}
	if err := dumpStream(s, in, &out); err != nil {
		t.Fatalf("dumpStream: %v", err)
	}
	if out.Len() != aacs.AlignedUnitLen {
		t.Fatalf("expected the bad unit skipped and only the good unit written, got %d bytes", out.Len())
	}
	if !bytes.Equal(out.Bytes(), good) {
		t.Fatalf("expected written bytes to be the clear unit that followed the bad one")
	}
}
