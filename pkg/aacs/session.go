package aacs

import "github.com/barnettlynn/libaacs-go/internal/keydb"

// Session holds derived key state across the Open -> DecryptUnit -> Close
// lifecycle. It is mutated only during Open (single-threaded); after Open
// returns successfully, only unitKeys and vid are consulted, and both are
// immutable for the life of the Session.
type Session struct {
	pk  [16]byte // currently-tried processing key (transient, wiped after derivation)
	mk  [16]byte
	vuk [16]byte
	vid [16]byte

	mkSet  bool
	vukSet bool
	vidSet bool

	unitKeys [][16]byte

	// config and matchedEntry are scoped to Open and released before it
	// returns, regardless of outcome.
	config       *keydb.Database
	matchedEntry *keydb.DiscEntry
}

// GetVID returns the disc's 16-byte Volume ID. The returned array is a
// copy; callers cannot mutate Session state through it.
func (s *Session) GetVID() [16]byte {
	return s.vid
}

// NumUnitKeys returns the number of CPS unit keys available for
// decryption. Exposed primarily for diagnostics (cmd/aacsinfo).
func (s *Session) NumUnitKeys() int {
	return len(s.unitKeys)
}

// Close releases all key material held by the session, wiping sensitive
// buffers before they become garbage. Config and MKB state are already
// released by the time Open returns, win or lose; Close only needs to
// scrub the long-lived key fields.
func Close(s *Session) {
	if s == nil {
		return
	}
	wipe(s.pk[:])
	wipe(s.mk[:])
	wipe(s.vuk[:])
	wipe(s.vid[:])
	for i := range s.unitKeys {
		wipe(s.unitKeys[i][:])
	}
	s.unitKeys = nil
	s.config = nil
	s.matchedEntry = nil
}

// releaseTransient wipes and drops the intermediate key material and
// config state that Open must not retain past a successful return: the
// processing key, the media key, the volume unique key, the matched
// config entry, and the parsed database itself. Only unitKeys and vid
// survive a successful Open.
func (s *Session) releaseTransient() {
	wipe(s.pk[:])
	wipe(s.mk[:])
	wipe(s.vuk[:])
	s.mkSet = false
	s.vukSet = false
	s.config = nil
	s.matchedEntry = nil
}
