// Package signature provides the secp256k1 key and signing operations needed
// to authorize a transaction: key generation, compressed public key derivation
// and recoverable ECDSA signing.
package signature

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math/big"
	"sync"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/adamwoolhether/htdfsign/foundation/blockchain/errs"
)

// Sizes of the values handled by this package.
const (
	PrivateKeyLen = 32
	PublicKeyLen  = 33
	SignatureLen  = 64
	DigestLen     = 32
)

// ErrInvalidPrivateKey is returned when a 32 byte value is zero or not below
// the curve order.
var ErrInvalidPrivateKey = errors.New("private key is not a valid secp256k1 scalar")

// =============================================================================

// The curve handle used to derive public keys. It is created on first use and
// never mutated afterwards, so it is safe to share between goroutines for the
// life of the process. Signing, verification and recovery run inside
// go-ethereum's crypto package on its own secp256k1 state.
var (
	curveOnce sync.Once
	curveCtx  elliptic.Curve
)

func curve() elliptic.Curve {
	curveOnce.Do(func() {
		curveCtx = crypto.S256()
	})
	return curveCtx
}

// =============================================================================

// GenerateKey draws random 32 byte values until one is a valid private key.
// The chance of a draw being rejected is below 2^-127, so the loop ends with
// probability 1 even though it has no bound.
func GenerateKey() ([]byte, error) {
	return generateKey(rand.Reader)
}

func generateKey(r io.Reader) ([]byte, error) {
	key := make([]byte, PrivateKeyLen)
	for {
		if _, err := io.ReadFull(r, key); err != nil {
			return nil, fmt.Errorf("reading entropy: %w", err)
		}

		if ValidPrivateKey(key) {
			return key, nil
		}
	}
}

// ValidPrivateKey reports whether key is 32 bytes, non-zero and below the
// secp256k1 group order.
func ValidPrivateKey(key []byte) bool {
	if len(key) != PrivateKeyLen {
		return false
	}

	var s secp256k1.ModNScalar
	if overflow := s.SetByteSlice(key); overflow {
		return false
	}

	return !s.IsZero()
}

// CompressedPublicKey derives the 33 byte SEC1 compressed public key for the
// specified private key.
func CompressedPublicKey(privateKey []byte) ([]byte, error) {
	if len(privateKey) != PrivateKeyLen {
		return nil, errs.NewArgumentError("privateKey", "length %d is not %d bytes", len(privateKey), PrivateKeyLen)
	}

	pk, err := toECDSA(privateKey)
	if err != nil {
		return nil, errs.NewCryptoError(errs.OpKeyDerivation, err)
	}

	return crypto.CompressPubkey(&pk.PublicKey), nil
}

// PrivateKeyToCompressedPubKeyHex takes a hex encoded private key and returns
// the hex encoded compressed public key.
func PrivateKeyToCompressedPubKeyHex(privateKeyHex string) (string, error) {
	privateKey, err := hex.DecodeString(privateKeyHex)
	if err != nil {
		return "", errs.NewDecodeError("private key hex", err)
	}

	pub, err := CompressedPublicKey(privateKey)
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(pub), nil
}

// SignRecoverable signs the 32 byte digest and returns the 64 byte r||s
// signature together with its recovery id. Only r||s goes on chain since the
// envelope carries the full public key.
func SignRecoverable(digest []byte, privateKey []byte) ([]byte, byte, error) {
	if len(digest) != DigestLen {
		return nil, 0, errs.NewArgumentError("digest", "length %d is not %d bytes", len(digest), DigestLen)
	}

	if len(privateKey) != PrivateKeyLen {
		return nil, 0, errs.NewArgumentError("privateKey", "length %d is not %d bytes", len(privateKey), PrivateKeyLen)
	}

	pk, err := toECDSA(privateKey)
	if err != nil {
		return nil, 0, errs.NewCryptoError(errs.OpSigning, err)
	}

	// The result is [R || S || V] where V is the recovery id.
	sig, err := crypto.Sign(digest, pk)
	if err != nil {
		return nil, 0, errs.NewCryptoError(errs.OpSigning, err)
	}

	return sig[:SignatureLen], sig[SignatureLen], nil
}

// Verify checks the 64 byte r||s signature of digest against a compressed or
// uncompressed public key.
func Verify(publicKey []byte, digest []byte, sig []byte) bool {
	if len(digest) != DigestLen || len(sig) != SignatureLen {
		return false
	}

	return crypto.VerifySignature(publicKey, digest, sig)
}

// RecoverPublicKey returns the compressed public key that produced the
// signature over digest.
func RecoverPublicKey(digest []byte, sig []byte, recoveryID byte) ([]byte, error) {
	if len(digest) != DigestLen {
		return nil, errs.NewArgumentError("digest", "length %d is not %d bytes", len(digest), DigestLen)
	}

	if len(sig) != SignatureLen {
		return nil, errs.NewArgumentError("sig", "length %d is not %d bytes", len(sig), SignatureLen)
	}

	full := make([]byte, SignatureLen+1)
	copy(full, sig)
	full[SignatureLen] = recoveryID

	pub, err := crypto.SigToPub(digest, full)
	if err != nil {
		return nil, errs.NewCryptoError(errs.OpRecovery, err)
	}

	return crypto.CompressPubkey(pub), nil
}

// =============================================================================

// toECDSA builds a private key on the shared curve handle.
func toECDSA(privateKey []byte) (*ecdsa.PrivateKey, error) {
	if !ValidPrivateKey(privateKey) {
		return nil, ErrInvalidPrivateKey
	}

	c := curve()

	pk := new(ecdsa.PrivateKey)
	pk.PublicKey.Curve = c
	pk.D = new(big.Int).SetBytes(privateKey)
	pk.PublicKey.X, pk.PublicKey.Y = c.ScalarBaseMult(privateKey)

	return pk, nil
}
