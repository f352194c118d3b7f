package tran

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"github.com/adamwoolhether/htdfsign/foundation/blockchain/address"
	"github.com/adamwoolhether/htdfsign/foundation/blockchain/errs"
	"github.com/adamwoolhether/htdfsign/foundation/blockchain/signature"
)

// BroadcastTx is the signed envelope submitted to a node. It wraps the raw
// transaction with the signer's public key and the signature over the raw
// transaction's sign bytes.
type BroadcastTx struct {
	Type        string `json:"type"`
	Tx          RawTx  `json:"tx"`
	MsgType     string `json:"msg_type"`
	PubKeyType  string `json:"pub_key_type"`
	PubKeyValue string `json:"pub_key_value"` // base64 of the compressed public key.
	Signature   string `json:"signature"`     // base64 of r||s.
}

// NewBroadcastTx wraps tx in an envelope with the default literals. The
// public key and signature are left empty.
func NewBroadcastTx(tx RawTx) BroadcastTx {
	return BroadcastTx{
		Type:       TxType,
		Tx:         tx,
		MsgType:    MsgTypeSend,
		PubKeyType: PubKeyType,
	}
}

// Sign hashes the sign bytes of tx, signs them with privateKey and returns the
// validated envelope ready for broadcast.
func Sign(tx RawTx, privateKey []byte) (BroadcastTx, error) {
	digest, err := tx.Hash()
	if err != nil {
		return BroadcastTx{}, err
	}

	sig, _, err := signature.SignRecoverable(digest, privateKey)
	if err != nil {
		return BroadcastTx{}, err
	}

	pub, err := signature.CompressedPublicKey(privateKey)
	if err != nil {
		return BroadcastTx{}, err
	}

	btx := NewBroadcastTx(tx)
	btx.PubKeyValue = base64.StdEncoding.EncodeToString(pub)
	btx.Signature = base64.StdEncoding.EncodeToString(sig)

	if err := btx.Validate(); err != nil {
		return BroadcastTx{}, err
	}

	return btx, nil
}

// Validate checks the wrapped transaction first and then the envelope.
func (btx BroadcastTx) Validate() error {
	if err := btx.Tx.Validate(); err != nil {
		return fmt.Errorf("broadcast tx: %w", err)
	}

	if btx.MsgType != MsgTypeSend && btx.MsgType != MsgTypeSendHET {
		return errs.NewValidationError("msg_type", btx.MsgType, MsgTypeSend+"|"+MsgTypeSendHET,
			"invalid `msg type`: %q, must be %q or %q", btx.MsgType, MsgTypeSend, MsgTypeSendHET)
	}

	if btx.PubKeyType != PubKeyType {
		return errs.NewValidationError("pub_key_type", btx.PubKeyType, PubKeyType,
			"invalid `pub_key type`: %q, must be %q", btx.PubKeyType, PubKeyType)
	}

	if btx.PubKeyValue == "" {
		return errs.NewValidationError("pub_key_value", "", "base64(pubkey)",
			"invalid `pub_key value`: is empty, must be base64(pubkey)")
	}

	pub, err := base64.StdEncoding.DecodeString(btx.PubKeyValue)
	if err != nil {
		return errs.NewValidationError("pub_key_value", btx.PubKeyValue, "base64(pubkey)",
			"invalid `pub_key value`: not base64: %s", err)
	}

	if len(pub) != PubKeyLen {
		return errs.NewValidationError("pub_key_value", btx.PubKeyValue, lenOf(PubKeyLen),
			"invalid `pub_key value`: length %d is not %d, after base64 decode the pubkey length must be %d", len(pub), PubKeyLen, PubKeyLen)
	}

	sig, err := base64.StdEncoding.DecodeString(btx.Signature)
	if err != nil {
		return errs.NewValidationError("signature", btx.Signature, "base64(r||s)",
			"invalid `signature`: not base64: %s", err)
	}

	if len(sig) != SigLen {
		return errs.NewValidationError("signature", btx.Signature, lenOf(SigLen),
			"invalid `signature`: length %d is not %d, after base64 decode the signature length must be %d", len(sig), SigLen, SigLen)
	}

	if btx.Type != TxType {
		return errs.NewValidationError("type", btx.Type, TxType,
			"invalid `type`: %q, must be %q", btx.Type, TxType)
	}

	return nil
}

// Verify checks that the signature is valid for the raw transaction under the
// envelope's public key and that the key owns the sending address.
func (btx BroadcastTx) Verify() error {
	if err := btx.Validate(); err != nil {
		return err
	}

	pub, _ := base64.StdEncoding.DecodeString(btx.PubKeyValue)
	sig, _ := base64.StdEncoding.DecodeString(btx.Signature)

	digest, err := btx.Tx.Hash()
	if err != nil {
		return err
	}

	if !signature.Verify(pub, digest, sig) {
		return errs.NewValidationError("signature", btx.Signature, "valid signature",
			"invalid `signature`: does not match the transaction and public key")
	}

	from, err := address.FromPubKey(pub)
	if err != nil {
		return err
	}

	if from != btx.Tx.MsgFrom {
		return errs.NewValidationError("msg_from", btx.Tx.MsgFrom, from,
			"invalid address `msg From`: %q, signer address is %q", btx.Tx.MsgFrom, from)
	}

	return nil
}

// JSON validates the envelope and renders the broadcast payload.
func (btx BroadcastTx) JSON() ([]byte, error) {
	if err := btx.Validate(); err != nil {
		return nil, err
	}

	return marshal(btx.doc())
}

// Hex validates the envelope and returns the broadcast payload with every
// byte written as two lowercase hex digits. No JSON is returned on failure.
func (btx BroadcastTx) Hex() (string, error) {
	b, err := btx.JSON()
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}

func (btx BroadcastTx) doc() object {
	tx := btx.Tx

	return object{
		{"type", str(btx.Type)},
		{"value", object{
			{"msg", array{
				object{
					{"type", str(btx.MsgType)},
					{"value", object{
						{"From", str(tx.MsgFrom)},
						{"To", str(tx.MsgTo)},
						{"Amount", array{
							object{
								{"denom", str(tx.MsgDenom)},
								{"amount", quoted(tx.MsgAmount)},
							},
						}},
						{"Data", str(tx.Data)},
						{"GasPrice", quoted(tx.FeeAmount)},
						{"GasWanted", quoted(tx.Gas)},
					}},
				},
			}},
			{"fee", object{
				{"gas_price", quoted(tx.FeeAmount)},
				{"gas_wanted", quoted(tx.Gas)},
			}},
			{"signatures", array{
				object{
					{"pub_key", object{
						{"type", str(btx.PubKeyType)},
						{"value", str(btx.PubKeyValue)},
					}},
					{"signature", str(btx.Signature)},
				},
			}},
			{"memo", str(tx.Memo)},
		}},
	}
}
