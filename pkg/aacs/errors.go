package aacs

import (
	"errors"
	"fmt"
)

// Sentinel errors for derivation-stage failures that carry no extra
// context beyond "this stage could not complete".
var (
	ErrConfigMissing        = errors.New("aacs: no readable key database config file")
	ErrConfigMalformed      = errors.New("aacs: key database config file is malformed")
	ErrNoMatchingEntry      = errors.New("aacs: disc hash matches no config entry and key derivation failed")
	ErrNoValidProcessingKey = errors.New("aacs: no processing key validated against the media key block")
	ErrNoVolumeID           = errors.New("aacs: no volume ID available from config or drive")
)

// DiscFilesError reports that a required on-disc AACS file (MKB_RO.inf or
// Unit_Key_RO.inf) could not be read.
type DiscFilesError struct {
	Path  string
	Cause error
}

func (e *DiscFilesError) Error() string {
	return fmt.Sprintf("aacs: disc file %s unreadable: %v", e.Path, e.Cause)
}

func (e *DiscFilesError) Unwrap() error { return e.Cause }

// UnitDecryptError reports that a specific unit, identified by its index
// within a stream, failed decryption under every candidate unit key.
// DecryptUnit itself returns a plain bool per the public API contract;
// this type is used by higher-level helpers (cmd/aacsdump) that track
// position within a file.
type UnitDecryptError struct {
	UnitIndex int
}

func (e *UnitDecryptError) Error() string {
	return fmt.Sprintf("aacs: unit %d failed to decrypt under all candidate unit keys", e.UnitIndex)
}
