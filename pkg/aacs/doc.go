/*
Package aacs implements the core of the Advanced Access Content System
(AACS) key-derivation and unit-decryption pipeline used to read
protected optical-disc content.

Given a mounted disc path and a key database, Open derives the chain
Processing Key → Media Key → Volume Unique Key → CPS Unit Keys, trying
the key database's pre-provided shortcuts at every stage before falling
back to deriving from the disc's Media Key Block and an authenticated
drive session. Once open, DecryptUnit decrypts 6,144-byte aligned
transport-stream units in place.

# Key Derivation Waterfall

	1. Parse key database  -> candidate processing keys, host
	   certificates, disc-to-key entries.
	2. Hash the disc's Unit_Key_RO.inf, look up a matching disc entry,
	   import whatever subset of {MK, VID, VUK, unit keys} it supplies.
	3. If unit keys were supplied directly, finish.
	4. Otherwise: derive MK from the MKB against every (processing key,
	   UV, c-value) triple; derive VUK from MK and a Volume ID (from the
	   config entry, or from an authenticated MMC session); derive unit
	   keys by decrypting Unit_Key_RO.inf's key table under VUK.
	5. On success, retain only the unit keys and Volume ID; every other
	   intermediate (processing key, Media Key, VUK, the parsed config)
	   is wiped and released before Open returns.

# Unit Decryption

A unit is 32 transport packets of 192 bytes (4-byte TP_extra_header +
188-byte TS packet). The top two bits of each packet's first byte are
the Copy Permission Indicator; 00 means the unit is already in the
clear. For an encrypted unit, DecryptUnit derives a per-unit key from
the current candidate CPS unit key and the unit's own plaintext header,
decrypts the remainder with AES-128-CBC under a fixed IV, and accepts
the result only if it passes a transport-stream sync-byte sanity check.
On failure it retries with the next candidate unit key.

# Non-goals

Revocation processing, bus-encryption negotiation, BD+ or other overlay
schemes, multi-disc session caching, re-encryption, and concurrent
decryption of multiple discs from a single Session are out of scope.
*/
package aacs
