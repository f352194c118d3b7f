// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/adamwoolhether/htdfsign/business/sys/validate"
	v1 "github.com/adamwoolhether/htdfsign/business/web/v1"
	"github.com/adamwoolhether/htdfsign/foundation/blockchain/address"
	"github.com/adamwoolhether/htdfsign/foundation/blockchain/node"
	"github.com/adamwoolhether/htdfsign/foundation/blockchain/tran"
	"github.com/adamwoolhether/htdfsign/foundation/blockchain/wallet"
	"github.com/adamwoolhether/htdfsign/foundation/events"
	"github.com/adamwoolhether/htdfsign/foundation/web"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Handlers manages the set of signer endpoints.
type Handlers struct {
	Log    *zap.SugaredLogger
	Wallet *wallet.Wallet
	Node   *node.Client
	Evts   *events.Events
	WS     websocket.Upgrader
}

// Account returns the address and public key the service signs with.
func (h Handlers) Account(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := account{
		Address:      h.Wallet.Address(),
		PubKeyHex:    h.Wallet.PublicKeyHex(),
		PubKeyBase64: h.Wallet.PublicKeyBase64(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Address derives the account address for a hex encoded public key.
func (h Handlers) Address(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	addr, err := address.FromPubKeyHex(web.Param(r, "pubkey"))
	if err != nil {
		return err
	}

	resp := struct {
		Address string `json:"address"`
	}{
		Address: addr,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// SignBytes returns the canonical JSON of a raw transaction and the digest
// that has to be signed, for clients that sign on their own.
func (h Handlers) SignBytes(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req rawTx
	if err := web.Decode(r, &req); err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	if err := validate.Check(req); err != nil {
		return err
	}

	tx := req.toTran()

	b, err := tx.SignBytes()
	if err != nil {
		return err
	}

	hash, err := tx.Hash()
	if err != nil {
		return err
	}

	resp := signBytes{
		SignBytes: string(b),
		Hash:      hex.EncodeToString(hash),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Sign signs a transfer with the service key.
func (h Handlers) Sign(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req rawTx
	if err := web.Decode(r, &req); err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	if err := validate.Check(req); err != nil {
		return err
	}

	resp, err := h.sign(ctx, req.toTran())
	if err != nil {
		return err
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Encode validates a transaction signed elsewhere and returns the hex
// payload to broadcast.
func (h Handlers) Encode(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req envelope
	if err := web.Decode(r, &req); err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	if err := validate.Check(req); err != nil {
		return err
	}

	btx := req.toTran()
	if err := btx.Verify(); err != nil {
		return err
	}

	resp, err := render(btx)
	if err != nil {
		return err
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Broadcast signs a transfer with the service key and relays it to the
// configured node. Account number and sequence are looked up on the node
// when the request leaves them out.
func (h Handlers) Broadcast(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if h.Node == nil {
		return v1.NewRequestError(errors.New("no node configured for broadcasting"), http.StatusServiceUnavailable)
	}

	var req rawTx
	if err := web.Decode(r, &req); err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	if err := validate.Check(req); err != nil {
		return err
	}

	// A sequence without its account number would be overwritten by the lookup.
	if req.AccountNumber == 0 && req.Sequence != 0 {
		return validate.NewFieldsError("account_number", errors.New("account_number is required when sequence is set"))
	}

	tx := req.toTran()
	if tx.AccountNumber == 0 {
		acct, err := h.Node.Account(ctx, h.Wallet.Address())
		if err != nil {
			if errors.Is(err, node.ErrAccountNotFound) {
				return v1.NewRequestError(err, http.StatusConflict)
			}
			return fmt.Errorf("looking up account: %w", err)
		}
		tx.AccountNumber = acct.AccountNumber
		tx.Sequence = acct.Sequence
	}

	signed, err := h.sign(ctx, tx)
	if err != nil {
		return err
	}

	res, err := h.Node.Broadcast(ctx, signed.Hex)
	if err != nil {
		return v1.NewRequestError(err, http.StatusBadGateway)
	}

	h.Log.Infow("broadcast", "traceid", web.GetTraceID(ctx), "txhash", res.TxHash, "height", res.Height)

	resp := broadcastResult{
		From:     signed.From,
		Sequence: signed.Sequence,
		Tx:       signed.Tx,
		Hex:      signed.Hex,
		Height:   res.Height,
		TxHash:   res.TxHash,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Events streams a notice of every signed transaction over a websocket.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	// Need this to handle CORS on the websocket.
	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	// This upgrades the HTTP connection to a websocket connection.
	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	// This provides a channel for receiving events from the signer.
	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	// This starts a ticker to ping the client to keep the connection alive.
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:

			// If the channel is closed, release the websocket.
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return nil
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// =============================================================================

func (h Handlers) sign(ctx context.Context, tx tran.RawTx) (signedTx, error) {
	btx, err := h.Wallet.Sign(tx)
	if err != nil {
		return signedTx{}, err
	}

	resp, err := render(btx)
	if err != nil {
		return signedTx{}, err
	}

	traceID := web.GetTraceID(ctx)
	h.Log.Infow("sign tx", "traceid", traceID, "from", btx.Tx.MsgFrom, "to", btx.Tx.MsgTo,
		"amount", btx.Tx.MsgAmount, "sequence", btx.Tx.Sequence)

	evt, err := json.Marshal(txEvent{
		TraceID:  traceID,
		From:     btx.Tx.MsgFrom,
		To:       btx.Tx.MsgTo,
		Amount:   btx.Tx.MsgAmount,
		Sequence: btx.Tx.Sequence,
	})
	if err == nil && h.Evts != nil {
		h.Evts.Send(string(evt))
	}

	return resp, nil
}

func render(btx tran.BroadcastTx) (signedTx, error) {
	js, err := btx.JSON()
	if err != nil {
		return signedTx{}, err
	}

	return signedTx{
		From:     btx.Tx.MsgFrom,
		Sequence: btx.Tx.Sequence,
		Tx:       string(js),
		Hex:      hex.EncodeToString(js),
	}, nil
}
