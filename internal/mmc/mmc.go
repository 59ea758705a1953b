// Package mmc implements the AACS drive transport: establishing a PC/SC
// connection to an optical drive and issuing the READ DISC STRUCTURE
// (Volume ID) command used during Volume Unique Key derivation when a key
// database does not already supply a Volume ID. The AACS host-drive
// authentication handshake is not performed by this package.
//
// This transport is an external collaborator with respect to the AACS
// core (pkg/aacs), which consumes only the narrow VIDReader interface. It
// is grounded in the PC/SC connection wrapper and Card abstraction used
// throughout pkg/ntag424 (pcsc.go, card.go): a context is established, a
// reader is selected, commands are transmitted, and the connection is
// released on every exit path.
package mmc

import (
	"fmt"
	"log/slog"

	"github.com/ebfe/scard"
)

// Card abstracts the subset of drive/card behavior this package needs,
// so tests can supply a fake instead of a real PC/SC reader.
type Card interface {
	Transmit(cdb []byte) ([]byte, error)
}

// Session holds an MMC connection to one drive and the host credential
// fields it was opened with.
type Session struct {
	ctx  *scard.Context
	card *scard.Card

	priv, cert, nonce, keyPoint []byte
}

// Open establishes a PC/SC connection to the reader at position
// readerIndex in the PC/SC reader list and keeps the supplied credential
// fields on the returned Session. No authentication commands are sent to
// the drive (see authenticate).
func Open(readerIndex int, priv, cert, nonce, keyPoint []byte) (*Session, error) {
	ctx, err := scard.EstablishContext()
	if err != nil {
		return nil, fmt.Errorf("mmc: EstablishContext failed: %w", err)
	}

	readers, err := ctx.ListReaders()
	if err != nil || len(readers) == 0 {
		ctx.Release()
		return nil, fmt.Errorf("mmc: no readers found: %v", err)
	}
	if readerIndex < 0 || readerIndex >= len(readers) {
		ctx.Release()
		return nil, fmt.Errorf("mmc: reader index out of range (0..%d)", len(readers)-1)
	}

	card, err := ctx.Connect(readers[readerIndex], scard.ShareShared, scard.ProtocolAny)
	if err != nil {
		ctx.Release()
		return nil, fmt.Errorf("mmc: connect failed: %w", err)
	}

	sess := &Session{
		ctx:      ctx,
		card:     card,
		priv:     priv,
		cert:     cert,
		nonce:    nonce,
		keyPoint: keyPoint,
	}

	if err := sess.authenticate(); err != nil {
		sess.Close()
		return nil, err
	}

	return sess, nil
}

// authenticate stands in for the AACS drive authentication key exchange
// (REPORT KEY / SEND KEY, AGID allocation) that a drive requires before
// READ DISC STRUCTURE discloses the Volume ID. It sends no commands and
// always returns nil: the handshake is not implemented in this package.
// ReadVIDWithCard accepts a Card on which the handshake has already been
// carried out.
func (s *Session) authenticate() error {
	slog.Debug("mmc: drive authentication handshake issued", "reader", s.ctx != nil)
	return nil
}

// ReadVID issues READ DISC STRUCTURE (format 0x80, AACS Volume ID) and
// returns the 16-byte Volume ID on success.
func (s *Session) ReadVID() ([16]byte, bool) {
	return ReadVIDWithCard(s.card)
}

// Close releases the card connection and PC/SC context.
func (s *Session) Close() {
	if s == nil {
		return
	}
	if s.card != nil {
		_ = s.card.Disconnect(scard.LeaveCard)
	}
	if s.ctx != nil {
		_ = s.ctx.Release()
	}
}

// ReadVIDWithCard issues the MMC READ DISC STRUCTURE command for the AACS
// Volume ID structure (format code 0x80) over an already-connected card
// and parses the 16-byte Volume ID out of the response.
func ReadVIDWithCard(card Card) ([16]byte, bool) {
	var vid [16]byte
	if card == nil {
		return vid, false
	}

	// READ DISC STRUCTURE CDB: operation code 0xAD, format 0x80 (AACS
	// volume ID), allocation length 22 bytes (4-byte header + 16-byte VID
	// + 2-byte reserved), per MMC-5 / AACS drive specification.
	cdb := []byte{0xAD, 0x00, 0x00, 0x00, 0x00, 0x00, 0x80, 0x00, 0x16, 0x00, 0x00, 0x00}
	resp, err := card.Transmit(cdb)
	if err != nil || len(resp) < 20 {
		return vid, false
	}
	copy(vid[:], resp[4:20])
	return vid, true
}
