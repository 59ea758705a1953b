package aacs

import (
	"bytes"
	"log/slog"

	"github.com/barnettlynn/libaacs-go/internal/keydb"
)

// MatchResult reports which fields of a matched config entry were
// actually imported into the session. Tracking presence explicitly (as
// opposed to re-deriving it from "is the field all-zero") means a
// legitimately-zero key can never be confused with "unset" at a later
// derivation stage.
type MatchResult struct {
	Found    bool // a disc entry with this disc hash exists at all
	MK       bool
	VID      bool
	VUK      bool
	UnitKeys bool
}

// HaveAllUnitKeys reports whether the config entry alone supplied a
// complete unit-key list, letting Open skip the entire waterfall.
func (r MatchResult) HaveAllUnitKeys() bool { return r.UnitKeys }

// anyImported reports whether at least one field was imported, which the
// original implementation treats as "this wasn't a total miss" even when
// it falls short of a full short-circuit.
func (r MatchResult) anyImported() bool {
	return r.MK || r.VID || r.VUK || r.UnitKeys
}

// matchConfigEntry linearly scans db's disc entries for one whose
// DiscID equals hash, and imports whichever of {MK, VID, VUK, unit keys}
// it supplies into the session.
func matchConfigEntry(s *Session, db *keydb.Database, hash [20]byte) MatchResult {
	var result MatchResult

	for i := range db.DiscEntries {
		entry := &db.DiscEntries[i]
		if !bytes.Equal(entry.DiscID[:], hash[:]) {
			continue
		}

		result.Found = true
		s.matchedEntry = entry
		slog.Debug("aacs: found config entry for disc", "disc_id", hash)

		if entry.MKSet {
			s.mk = entry.MK
			s.mkSet = true
			result.MK = true
			slog.Debug("aacs: imported media key from config entry")
		}
		if entry.VIDSet {
			s.vid = entry.VID
			s.vidSet = true
			result.VID = true
			slog.Debug("aacs: imported volume id from config entry")
		}
		if entry.VUKSet {
			s.vuk = entry.VUK
			s.vukSet = true
			result.VUK = true
			slog.Debug("aacs: imported volume unique key from config entry")
		}
		if len(entry.UnitKeys) > 0 {
			s.unitKeys = append([][16]byte(nil), entry.UnitKeys...)
			result.UnitKeys = true
			slog.Debug("aacs: imported unit keys from config entry", "count", len(entry.UnitKeys))
		}

		break
	}

	return result
}
