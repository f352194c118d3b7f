// Package address converts public keys into bech32 account addresses and
// back into their 20 byte hash160 form.
package address

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // hash160 is defined over RIPEMD-160.

	"github.com/adamwoolhether/htdfsign/foundation/blockchain/errs"
)

// HRP is the human readable part of every account address on the chain.
const HRP = "htdf"

// HashLen is the size of the hash160 digest an address encodes.
const HashLen = ripemd160.Size

// Len is the length of an encoded address: prefix, separator, 32 data
// characters for the 20 byte hash and the 6 character checksum.
const Len = len(HRP) + 1 + 32 + 6

// Bit group sizes for the regrouping ahead of bech32 encoding.
const (
	fromBits = 8
	toBits   = 5
)

// FromPubKeyHex derives the account address for a hex encoded public key.
func FromPubKeyHex(pubKeyHex string) (string, error) {
	pub, err := hex.DecodeString(pubKeyHex)
	if err != nil {
		return "", errs.NewDecodeError("public key hex", err)
	}

	return FromPubKey(pub)
}

// FromPubKey derives the account address for the raw public key bytes. Any
// length is accepted, although the chain expects the 33 byte compressed form.
func FromPubKey(pub []byte) (string, error) {
	return Encode(Hash160(pub))
}

// Encode renders a hash160 digest as a bech32 address.
func Encode(hash []byte) (string, error) {
	conv, err := bech32.ConvertBits(hash, fromBits, toBits, true)
	if err != nil {
		return "", fmt.Errorf("regrouping bits: %w", err)
	}

	return bech32.Encode(HRP, conv)
}

// Decode verifies the checksum and prefix of addr and returns the 20 byte
// hash160 digest it carries.
func Decode(addr string) ([]byte, error) {
	hrp, data, err := bech32.Decode(addr)
	if err != nil {
		return nil, errs.NewDecodeError("bech32 address", err)
	}

	if hrp != HRP {
		return nil, errs.NewDecodeError("bech32 address", fmt.Errorf("prefix %q is not %q", hrp, HRP))
	}

	// Padding must be zero when decoding, unlike the encoding path.
	hash, err := bech32.ConvertBits(data, toBits, fromBits, false)
	if err != nil {
		return nil, errs.NewDecodeError("bech32 address", err)
	}

	if len(hash) != HashLen {
		return nil, errs.NewDecodeError("bech32 address", fmt.Errorf("payload length %d is not %d", len(hash), HashLen))
	}

	return hash, nil
}

// Valid reports whether addr is a well formed account address.
func Valid(addr string) bool {
	_, err := Decode(addr)
	return err == nil
}

// Hash160 computes RIPEMD160(SHA256(b)).
func Hash160(b []byte) []byte {
	sum := sha256.Sum256(b)

	h := ripemd160.New()
	h.Write(sum[:])

	return h.Sum(nil)
}
