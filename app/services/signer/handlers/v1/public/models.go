package public

import (
	"github.com/adamwoolhether/htdfsign/foundation/blockchain/tran"
)

// rawTx is the transfer a client asks to have built or signed. Zero values
// fall back to the chain defaults for fee, gas and denominations.
type rawTx struct {
	AccountNumber uint64 `json:"account_number"`
	ChainID       string `json:"chain_id" validate:"required"`
	FeeAmount     uint64 `json:"fee_amount"`
	FeeDenom      string `json:"fee_denom"`
	Gas           uint64 `json:"gas"`
	Memo          string `json:"memo" validate:"max=256"`
	Amount        uint64 `json:"amount" validate:"required"`
	Denom         string `json:"denom"`
	From          string `json:"from" validate:"omitempty,htdfaddr"`
	To            string `json:"to" validate:"required,htdfaddr"`
	Sequence      uint64 `json:"sequence"`
	Data          string `json:"data"`
}

func (r rawTx) toTran() tran.RawTx {
	tx := tran.NewTransfer(r.ChainID, r.From, r.To, r.Amount)
	tx.AccountNumber = r.AccountNumber
	tx.Memo = r.Memo
	tx.Sequence = r.Sequence
	tx.Data = r.Data

	if r.FeeAmount != 0 {
		tx.FeeAmount = r.FeeAmount
	}
	if r.FeeDenom != "" {
		tx.FeeDenom = r.FeeDenom
	}
	if r.Gas != 0 {
		tx.Gas = r.Gas
	}
	if r.Denom != "" {
		tx.MsgDenom = r.Denom
	}

	return tx
}

// envelope is a transaction signed outside of this service.
type envelope struct {
	Tx        rawTx  `json:"tx"`
	MsgType   string `json:"msg_type"`
	PubKey    string `json:"pub_key" validate:"required,base64"`
	Signature string `json:"signature" validate:"required,base64"`
}

func (e envelope) toTran() tran.BroadcastTx {
	btx := tran.NewBroadcastTx(e.Tx.toTran())
	if e.MsgType != "" {
		btx.MsgType = e.MsgType
	}
	btx.PubKeyValue = e.PubKey
	btx.Signature = e.Signature

	return btx
}

type account struct {
	Address      string `json:"address"`
	PubKeyHex    string `json:"pub_key_hex"`
	PubKeyBase64 string `json:"pub_key_base64"`
}

type signBytes struct {
	SignBytes string `json:"sign_bytes"`
	Hash      string `json:"hash"`
}

type signedTx struct {
	From     string `json:"from"`
	Sequence uint64 `json:"sequence"`
	Tx       string `json:"tx"`
	Hex      string `json:"hex"`
}

type broadcastResult struct {
	From     string `json:"from"`
	Sequence uint64 `json:"sequence"`
	Tx       string `json:"tx"`
	Hex      string `json:"hex"`
	Height   string `json:"height"`
	TxHash   string `json:"txhash"`
}

// txEvent is what websocket subscribers receive for every signed transfer.
type txEvent struct {
	TraceID  string `json:"traceid"`
	From     string `json:"from"`
	To       string `json:"to"`
	Amount   uint64 `json:"amount"`
	Sequence uint64 `json:"sequence"`
}
