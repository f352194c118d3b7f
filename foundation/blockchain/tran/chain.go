// Package tran implements the transfer transaction of the chain: the raw
// transaction that gets signed, the broadcast envelope that carries the
// signature, their validation rules and their canonical JSON encodings.
package tran

import (
	"math"

	"github.com/adamwoolhether/htdfsign/foundation/blockchain/address"
	"github.com/adamwoolhether/htdfsign/foundation/blockchain/signature"
)

// Chain identifiers accepted by the network.
const (
	MainChainID = "mainchain-id"
	TestChainID = "testchain-id"
)

// Denom is the only denomination fees and transfers may be expressed in.
const Denom = "satoshi"

// Fee and gas bounds, inclusive.
const (
	MinFeeAmount uint64 = 100
	MaxFeeAmount uint64 = 10_000_000_000_000
	MinGas       uint64 = 30_000
	MaxGas       uint64 = 7_500_000
)

// Defaults applied by NewTransfer.
const (
	DefaultFeeAmount = MinFeeAmount
	DefaultGas       = MinGas
)

// Upper bounds, exclusive, for the per account counters.
const (
	MaxAccountNumber uint64 = math.MaxInt64
	MaxSequence      uint64 = math.MaxInt64
)

// Free text limits.
const (
	MaxMemoLen = 256
	MaxDataLen = 1024
)

// Literals of the broadcast envelope.
const (
	TxType         = "auth/StdTx"
	MsgTypeSend    = "htdfservice/send"
	MsgTypeSendHET = "hetservice/send"
	PubKeyType     = "tendermint/PubKeySecp256k1"
)

// Sizes checked on the broadcast envelope after base64 decoding.
const (
	PubKeyLen = signature.PublicKeyLen
	SigLen    = signature.SignatureLen
)

// AddrLen is the exact length of the From and To addresses.
const AddrLen = address.Len

// addrPrefix is what every account address starts with.
const addrPrefix = address.HRP + "1"
