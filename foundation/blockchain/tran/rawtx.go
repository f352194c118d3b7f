package tran

import (
	"crypto/sha256"
	"fmt"
	"strconv"
	"strings"

	"github.com/adamwoolhether/htdfsign/foundation/blockchain/errs"
)

// RawTx is the unsigned transfer transaction. Its canonical JSON is the
// pre-image that gets hashed and signed. The zero value is unpopulated and
// never validates, since account number 0 is outside the allowed range.
type RawTx struct {
	AccountNumber uint64 `json:"account_number"` // Number the chain assigned to the sending account.
	ChainID       string `json:"chain_id"`       // Network the transaction is meant for.
	FeeAmount     uint64 `json:"fee_amount"`     // Gas price in satoshi.
	FeeDenom      string `json:"fee_denom"`      // Denomination of the fee.
	Gas           uint64 `json:"gas"`            // Gas wanted.
	Memo          string `json:"memo"`           // Free text attached to the transaction.
	MsgAmount     uint64 `json:"msg_amount"`     // Value transferred.
	MsgDenom      string `json:"msg_denom"`      // Denomination of the value.
	MsgFrom       string `json:"msg_from"`       // Sending account address.
	MsgTo         string `json:"msg_to"`         // Receiving account address.
	Sequence      uint64 `json:"sequence"`       // Number of transactions the sender already sent.
	Data          string `json:"data"`           // Opaque payload.
}

// NewTransfer constructs a transfer with the default fee, gas and
// denominations. Account number and sequence still need to be provided.
func NewTransfer(chainID string, from string, to string, amount uint64) RawTx {
	return RawTx{
		ChainID:   chainID,
		FeeAmount: DefaultFeeAmount,
		FeeDenom:  Denom,
		Gas:       DefaultGas,
		MsgAmount: amount,
		MsgDenom:  Denom,
		MsgFrom:   from,
		MsgTo:     to,
	}
}

// Validate checks every field against the chain rules. Rules run in a fixed
// order and the first failure is returned as a *errs.ValidationError.
func (tx RawTx) Validate() error {
	if tx.AccountNumber == 0 || tx.AccountNumber >= MaxAccountNumber {
		return errs.NewValidationError("account_number", u64(tx.AccountNumber), rangeExcl(0, MaxAccountNumber),
			"invalid `account_number`: %d, must be between 0 and %d, both exclusive", tx.AccountNumber, MaxAccountNumber)
	}

	if tx.ChainID != MainChainID && tx.ChainID != TestChainID {
		return errs.NewValidationError("chain_id", tx.ChainID, MainChainID+"|"+TestChainID,
			"invalid `chain_id`: %q, must be %q or %q", tx.ChainID, MainChainID, TestChainID)
	}

	if tx.FeeAmount < MinFeeAmount || tx.FeeAmount > MaxFeeAmount {
		return errs.NewValidationError("fee_amount", u64(tx.FeeAmount), rangeIncl(MinFeeAmount, MaxFeeAmount),
			"invalid `fee amount`: %d, must be between %d and %d", tx.FeeAmount, MinFeeAmount, MaxFeeAmount)
	}

	if tx.Gas < MinGas || tx.Gas > MaxGas {
		return errs.NewValidationError("gas", u64(tx.Gas), rangeIncl(MinGas, MaxGas),
			"invalid `fee gas`: %d, must be between %d and %d", tx.Gas, MinGas, MaxGas)
	}

	if tx.FeeDenom != Denom {
		return errs.NewValidationError("fee_denom", tx.FeeDenom, Denom,
			"invalid `fee denom`: %q, must be %q", tx.FeeDenom, Denom)
	}

	if tx.MsgDenom != Denom {
		return errs.NewValidationError("msg_denom", tx.MsgDenom, Denom,
			"invalid `msgs amount denom`: %q, must be %q", tx.MsgDenom, Denom)
	}

	if len(tx.MsgFrom) != AddrLen {
		return errs.NewValidationError("msg_from", tx.MsgFrom, lenOf(AddrLen),
			"invalid address `msg From`: %q, address length must be %d", tx.MsgFrom, AddrLen)
	}

	if len(tx.MsgTo) != AddrLen {
		return errs.NewValidationError("msg_to", tx.MsgTo, lenOf(AddrLen),
			"invalid address `msg To`: %q, address length must be %d", tx.MsgTo, AddrLen)
	}

	if !strings.HasPrefix(tx.MsgFrom, addrPrefix) {
		return errs.NewValidationError("msg_from", tx.MsgFrom, addrPrefix+"...",
			"invalid address `msg From`: %q, must start with %q", tx.MsgFrom, addrPrefix)
	}

	if !strings.HasPrefix(tx.MsgTo, addrPrefix) {
		return errs.NewValidationError("msg_to", tx.MsgTo, addrPrefix+"...",
			"invalid address `msg To`: %q, must start with %q", tx.MsgTo, addrPrefix)
	}

	if tx.Sequence >= MaxSequence {
		return errs.NewValidationError("sequence", u64(tx.Sequence), rangeExcl(0, MaxSequence),
			"invalid `sequence`: %d, must be less than %d", tx.Sequence, MaxSequence)
	}

	if len(tx.Memo) > MaxMemoLen {
		return errs.NewValidationError("memo", tx.Memo, fmt.Sprintf("len<=%d", MaxMemoLen),
			"invalid `memo`: length %d exceeds %d", len(tx.Memo), MaxMemoLen)
	}

	if len(tx.Data) > MaxDataLen {
		return errs.NewValidationError("data", tx.Data, fmt.Sprintf("len<=%d", MaxDataLen),
			"invalid `data`: length %d exceeds %d", len(tx.Data), MaxDataLen)
	}

	return nil
}

// SignBytes validates the transaction and returns its canonical JSON.
func (tx RawTx) SignBytes() ([]byte, error) {
	if err := tx.Validate(); err != nil {
		return nil, err
	}

	return marshal(tx.signDoc())
}

// CanonicalJSON is SignBytes as a string.
func (tx RawTx) CanonicalJSON() (string, error) {
	b, err := tx.SignBytes()
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// Hash returns the SHA-256 digest of the sign bytes, which is what gets
// signed.
func (tx RawTx) Hash() ([]byte, error) {
	b, err := tx.SignBytes()
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256(b)
	return sum[:], nil
}

// signDoc lays out the pre-image. The fee block quotes its numbers while the
// message repeats them as bare numbers; the chain hashes exactly this.
func (tx RawTx) signDoc() object {
	return object{
		{"account_number", quoted(tx.AccountNumber)},
		{"chain_id", str(tx.ChainID)},
		{"fee", object{
			{"gas_price", quoted(tx.FeeAmount)},
			{"gas_wanted", quoted(tx.Gas)},
		}},
		{"memo", str(tx.Memo)},
		{"msgs", array{
			object{
				{"Amount", array{
					object{
						{"amount", quoted(tx.MsgAmount)},
						{"denom", str(tx.MsgDenom)},
					},
				}},
				{"Data", str(tx.Data)},
				{"From", str(tx.MsgFrom)},
				{"GasPrice", number(tx.FeeAmount)},
				{"GasWanted", number(tx.Gas)},
				{"To", str(tx.MsgTo)},
			},
		}},
		{"sequence", quoted(tx.Sequence)},
	}
}

// =============================================================================

func u64(v uint64) string {
	return strconv.FormatUint(v, 10)
}

func rangeExcl(min, max uint64) string {
	return fmt.Sprintf("(%d, %d)", min, max)
}

func rangeIncl(min, max uint64) string {
	return fmt.Sprintf("[%d, %d]", min, max)
}

func lenOf(n int) string {
	return fmt.Sprintf("len==%d", n)
}
