// Package wallet binds a private key to its public key and account address
// and signs transfers on behalf of that account.
package wallet

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/adamwoolhether/htdfsign/foundation/blockchain/address"
	"github.com/adamwoolhether/htdfsign/foundation/blockchain/errs"
	"github.com/adamwoolhether/htdfsign/foundation/blockchain/signature"
	"github.com/adamwoolhether/htdfsign/foundation/blockchain/tran"
)

// Wallet represents a single account able to sign transactions.
type Wallet struct {
	privateKey []byte
	publicKey  []byte
	address    string
}

// New constructs a wallet for the specified private key.
func New(privateKey []byte) (*Wallet, error) {
	pub, err := signature.CompressedPublicKey(privateKey)
	if err != nil {
		return nil, err
	}

	addr, err := address.FromPubKey(pub)
	if err != nil {
		return nil, err
	}

	w := Wallet{
		privateKey: append([]byte(nil), privateKey...),
		publicKey:  pub,
		address:    addr,
	}

	return &w, nil
}

// Generate constructs a wallet around a freshly generated private key.
func Generate() (*Wallet, error) {
	key, err := signature.GenerateKey()
	if err != nil {
		return nil, err
	}

	return New(key)
}

// Load reads a hex encoded private key file.
func Load(path string) (*Wallet, error) {
	pk, err := crypto.LoadECDSA(path)
	if err != nil {
		return nil, fmt.Errorf("loading key %s: %w", path, err)
	}

	return New(crypto.FromECDSA(pk))
}

// Save writes the private key to path in hex with owner only permissions.
func (w *Wallet) Save(path string) error {
	pk, err := crypto.ToECDSA(w.privateKey)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	return crypto.SaveECDSA(path, pk)
}

// Address returns the bech32 account address.
func (w *Wallet) Address() string {
	return w.address
}

// PublicKey returns a copy of the compressed public key.
func (w *Wallet) PublicKey() []byte {
	return append([]byte(nil), w.publicKey...)
}

// PublicKeyHex returns the compressed public key in hex.
func (w *Wallet) PublicKeyHex() string {
	return hex.EncodeToString(w.publicKey)
}

// PublicKeyBase64 returns the compressed public key the way the broadcast
// envelope carries it.
func (w *Wallet) PublicKeyBase64() string {
	return base64.StdEncoding.EncodeToString(w.publicKey)
}

// Sign signs the transaction for this account. An empty From is filled in
// with the wallet address; any other address is rejected.
func (w *Wallet) Sign(tx tran.RawTx) (tran.BroadcastTx, error) {
	switch tx.MsgFrom {
	case "":
		tx.MsgFrom = w.address
	case w.address:
	default:
		return tran.BroadcastTx{}, errs.NewValidationError("msg_from", tx.MsgFrom, w.address,
			"invalid address `msg From`: %q, wallet address is %q", tx.MsgFrom, w.address)
	}

	return tran.Sign(tx, w.privateKey)
}
