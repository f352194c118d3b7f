package handlers_test

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"

	"github.com/adamwoolhether/htdfsign/app/services/signer/handlers"
	"github.com/adamwoolhether/htdfsign/foundation/blockchain/node"
	"github.com/adamwoolhether/htdfsign/foundation/blockchain/tran"
	"github.com/adamwoolhether/htdfsign/foundation/blockchain/wallet"
	"github.com/adamwoolhether/htdfsign/foundation/events"
	"github.com/adamwoolhether/htdfsign/foundation/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	privHex    = "1f1e1d1c1b1a191817161514131211100f0e0d0c0b0a09080706050403020100"
	signerAddr = "htdf1sqczdzsyfzry02duvj50t0cucmdj05cqf7vkfz"
	fromAddr   = "htdf1w508d6qejxtdg4y5r3zarvary0c5xw7kxnzkkw"
	toAddr     = "htdf1q6hag67dl53wl99vzg42z8eyzfz2xlkvvdns06"
)

type signedTx struct {
	From     string `json:"from"`
	Sequence uint64 `json:"sequence"`
	Tx       string `json:"tx"`
	Hex      string `json:"hex"`
	TxHash   string `json:"txhash"`
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

func newMux(t *testing.T, nodeURL string) (http.Handler, *events.Events) {
	t.Helper()

	key, _ := hex.DecodeString(privHex)
	w, err := wallet.New(key)
	require.NoError(t, err)

	var nc *node.Client
	if nodeURL != "" {
		nc = node.New(nodeURL, 5*time.Second)
	}

	evts := events.New()
	t.Cleanup(evts.Shutdown)

	mux := handlers.PublicMux(handlers.MuxConfig{
		Shutdown: make(chan os.Signal, 1),
		Log:      logger.NewNop(),
		Wallet:   w,
		Node:     nc,
		Evts:     evts,
	})

	return mux, evts
}

func call(t *testing.T, mux http.Handler, method string, path string, body string) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, r)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	return w
}

func TestAccount(t *testing.T) {
	mux, _ := newMux(t, "")

	w := call(t, mux, http.MethodGet, "/v1/account", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, signerAddr, resp["address"])
	require.Equal(t, "025f7117a78150fe2ef97db7cfc83bd57b2e2c0d0dd25eaf467a4a1c2a45ce1486", resp["pub_key_hex"])
}

func TestAddress(t *testing.T) {
	mux, _ := newMux(t, "")

	w := call(t, mux, http.MethodGet, "/v1/address/0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"address":"`+fromAddr+`"}`, w.Body.String())

	w = call(t, mux, http.MethodGet, "/v1/address/xyz", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSignBytes(t *testing.T) {
	const exp = `{"account_number":"108","chain_id":"testchain-id","fee":{"gas_price":"2500000000000","gas_wanted":"50000"},"memo":"","msgs":[{"Amount":[{"amount":"100000000000","denom":"satoshi"}],"Data":"","From":"htdf1w508d6qejxtdg4y5r3zarvary0c5xw7kxnzkkw","GasPrice":2500000000000,"GasWanted":50000,"To":"htdf1q6hag67dl53wl99vzg42z8eyzfz2xlkvvdns06"}],"sequence":"0"}`

	mux, _ := newMux(t, "")

	body := `{"account_number":108,"chain_id":"testchain-id","fee_amount":2500000000000,"gas":50000,"amount":100000000000,"from":"` + fromAddr + `","to":"` + toAddr + `"}`
	w := call(t, mux, http.MethodPost, "/v1/tx/signbytes", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, exp, resp["sign_bytes"])

	sum := sha256.Sum256([]byte(exp))
	require.Equal(t, hex.EncodeToString(sum[:]), resp["hash"])
}

func TestSignBytesInvalid(t *testing.T) {
	mux, _ := newMux(t, "")

	// Passes request validation but breaks the chain's gas rule.
	body := `{"account_number":108,"chain_id":"testchain-id","gas":10,"amount":1,"from":"` + fromAddr + `","to":"` + toAddr + `"}`
	w := call(t, mux, http.MethodPost, "/v1/tx/signbytes", body)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var er errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &er))
	require.Contains(t, er.Fields["gas"], "must be between 30000 and 7500000")

	// Fails request validation.
	w = call(t, mux, http.MethodPost, "/v1/tx/signbytes", `{"chain_id":"testchain-id","to":"nope"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &er))
	require.Equal(t, "data validation error", er.Error)
	require.Contains(t, er.Fields, "to")
	require.Contains(t, er.Fields, "amount")

	// Unknown fields are refused.
	w = call(t, mux, http.MethodPost, "/v1/tx/signbytes", `{"value":1}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSignAndEncode(t *testing.T) {
	mux, evts := newMux(t, "")
	ch := evts.Acquire("test")

	body := `{"account_number":7,"chain_id":"mainchain-id","amount":5000,"sequence":2,"memo":"hi","to":"` + toAddr + `"}`
	w := call(t, mux, http.MethodPost, "/v1/tx/sign", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp signedTx
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, signerAddr, resp.From)
	require.Equal(t, uint64(2), resp.Sequence)
	require.Equal(t, hex.EncodeToString([]byte(resp.Tx)), resp.Hex)
	require.True(t, strings.HasPrefix(resp.Tx, `{"type":"auth/StdTx","value":{"msg":[{"type":"htdfservice/send"`))

	select {
	case evt := <-ch:
		require.Contains(t, evt, signerAddr)
	default:
		t.Fatal("Should publish an event for the signed tx.")
	}

	// Pull the envelope apart and have the service re-encode it.
	var doc struct {
		Value struct {
			Signatures []struct {
				PubKey struct {
					Value string `json:"value"`
				} `json:"pub_key"`
				Signature string `json:"signature"`
			} `json:"signatures"`
		} `json:"value"`
	}
	require.NoError(t, json.Unmarshal([]byte(resp.Tx), &doc))
	sig := doc.Value.Signatures[0]

	env := `{"tx":{"account_number":7,"chain_id":"mainchain-id","amount":5000,"sequence":2,"memo":"hi","from":"` + signerAddr + `","to":"` + toAddr + `"},"pub_key":"` + sig.PubKey.Value + `","signature":"` + sig.Signature + `"}`
	w = call(t, mux, http.MethodPost, "/v1/tx/encode", env)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var enc signedTx
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &enc))
	require.Equal(t, resp.Hex, enc.Hex)

	// Same envelope with a different amount no longer verifies.
	tampered := strings.Replace(env, `"amount":5000`, `"amount":5001`, 1)
	w = call(t, mux, http.MethodPost, "/v1/tx/encode", tampered)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSignForeignFrom(t *testing.T) {
	mux, _ := newMux(t, "")

	body := `{"account_number":7,"chain_id":"mainchain-id","amount":5000,"from":"` + fromAddr + `","to":"` + toAddr + `"}`
	w := call(t, mux, http.MethodPost, "/v1/tx/sign", body)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBroadcast(t *testing.T) {
	var relayed string

	nodeMux := http.NewServeMux()
	nodeMux.HandleFunc("/auth/accounts/"+signerAddr, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"type":"auth/Account","value":{"address":"`+signerAddr+`","account_number":"31","sequence":"4"}}`)
	})
	nodeMux.HandleFunc("/hs/broadcast", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Tx string `json:"tx"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		relayed = req.Tx
		io.WriteString(w, `{"height":"0","txhash":"C0FFEE"}`)
	})
	srv := httptest.NewServer(nodeMux)
	defer srv.Close()

	mux, _ := newMux(t, srv.URL)

	body := `{"chain_id":"testchain-id","amount":1,"to":"` + toAddr + `"}`
	w := call(t, mux, http.MethodPost, "/v1/tx/broadcast", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp signedTx
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "C0FFEE", resp.TxHash)
	require.Equal(t, uint64(4), resp.Sequence)
	require.Equal(t, resp.Hex, relayed)
	require.Contains(t, resp.Tx, `"memo":""`)

	raw, err := hex.DecodeString(relayed)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"GasWanted":"`+"30000"+`"`)
	require.Contains(t, string(raw), `"type":"`+tran.PubKeyType+`"`)

	body = `{"chain_id":"testchain-id","amount":1,"sequence":3,"to":"` + toAddr + `"}`
	w = call(t, mux, http.MethodPost, "/v1/tx/broadcast", body)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var er errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &er))
	require.Contains(t, er.Fields, "account_number")
}

func TestBroadcastWithoutNode(t *testing.T) {
	mux, _ := newMux(t, "")

	body := `{"chain_id":"testchain-id","amount":1,"to":"` + toAddr + `"}`
	w := call(t, mux, http.MethodPost, "/v1/tx/broadcast", body)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}
