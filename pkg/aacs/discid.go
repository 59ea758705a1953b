package aacs

import (
	"os"
	"path/filepath"
)

// unitKeyFilePath returns the path to a disc's Unit_Key_RO.inf file.
func unitKeyFilePath(discPath string) string {
	return filepath.Join(discPath, "AACS", "Unit_Key_RO.inf")
}

// discHash computes the 20-byte disc identifier: the SHA-1 of the
// complete, raw bytes of {discPath}/AACS/Unit_Key_RO.inf. This hash is
// used to index the key database's disc-to-key entries.
func discHash(discPath string) ([20]byte, error) {
	path := unitKeyFilePath(discPath)
	data, err := os.ReadFile(path)
	if err != nil {
		return [20]byte{}, &DiscFilesError{Path: path, Cause: err}
	}
	return sha1Sum(data), nil
}
