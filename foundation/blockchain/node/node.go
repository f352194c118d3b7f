// Package node is a client for the REST interface of a chain node. It looks
// up the account counters a transaction needs and relays signed payloads.
package node

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Set of error variables for the node client.
var (
	// ErrNotFound is returned when the node answers 404.
	ErrNotFound = errors.New("not found")

	// ErrAccountNotFound is returned when the node has no record of an
	// address, which is the case until it first receives funds.
	ErrAccountNotFound = errors.New("account not found")
)

// Account holds the counters of an account as reported by the node.
type Account struct {
	Address       string
	AccountNumber uint64
	Sequence      uint64
}

// BroadcastResult is the node's answer to a relayed transaction.
type BroadcastResult struct {
	Height string `json:"height"`
	TxHash string `json:"txhash"`
	Code   uint32 `json:"code"`
	RawLog string `json:"raw_log"`
}

// Client talks to a single node.
type Client struct {
	baseURL string
	http    *http.Client
}

// New constructs a client for the node at baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Account retrieves the account number and sequence for addr.
func (c *Client) Account(ctx context.Context, addr string) (Account, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/auth/accounts/%s", c.baseURL, addr), nil)
	if err != nil {
		return Account{}, err
	}

	var resp struct {
		Type  string `json:"type"`
		Value struct {
			Address       string `json:"address"`
			AccountNumber string `json:"account_number"`
			Sequence      string `json:"sequence"`
		} `json:"value"`
	}
	if err := c.do(req, &resp); err != nil {
		if errors.Is(err, ErrNotFound) {
			return Account{}, fmt.Errorf("%s: %w", addr, ErrAccountNotFound)
		}
		return Account{}, err
	}

	if resp.Value.Address == "" {
		return Account{}, fmt.Errorf("%s: %w", addr, ErrAccountNotFound)
	}

	accountNumber, err := parseCounter(resp.Value.AccountNumber)
	if err != nil {
		return Account{}, fmt.Errorf("parsing account_number: %w", err)
	}

	sequence, err := parseCounter(resp.Value.Sequence)
	if err != nil {
		return Account{}, fmt.Errorf("parsing sequence: %w", err)
	}

	acct := Account{
		Address:       resp.Value.Address,
		AccountNumber: accountNumber,
		Sequence:      sequence,
	}

	return acct, nil
}

// Broadcast relays the hex encoded broadcast payload to the node.
func (c *Client) Broadcast(ctx context.Context, txHex string) (BroadcastResult, error) {
	body, err := json.Marshal(struct {
		Tx string `json:"tx"`
	}{
		Tx: txHex,
	})
	if err != nil {
		return BroadcastResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/hs/broadcast", bytes.NewReader(body))
	if err != nil {
		return BroadcastResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	var result BroadcastResult
	if err := c.do(req, &result); err != nil {
		return BroadcastResult{}, err
	}

	if result.Code != 0 {
		return result, fmt.Errorf("node rejected tx %s, code %d: %s", result.TxHash, result.Code, result.RawLog)
	}

	return result, nil
}

// =============================================================================

func (c *Client) do(req *http.Request, v any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, ErrNotFound)
	}

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%s %s: status %d: %s", req.Method, req.URL.Path, resp.StatusCode, bytes.TrimSpace(msg))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

// parseCounter accepts the decimal strings the node reports. An absent
// counter means zero.
func parseCounter(s string) (uint64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseUint(s, 10, 64)
}
