package address_test

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/stretchr/testify/require"

	"github.com/adamwoolhether/htdfsign/foundation/blockchain/address"
	"github.com/adamwoolhether/htdfsign/foundation/blockchain/errs"
	"github.com/adamwoolhether/htdfsign/foundation/blockchain/signature"
)

var vectors = []struct {
	pub  string
	hash string
	addr string
}{
	{
		"0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798",
		"751e76e8199196d454941c45d1b3a323f1433bd6",
		"htdf1w508d6qejxtdg4y5r3zarvary0c5xw7kxnzkkw",
	},
	{
		"02c6047f9441ed7d6d3045406e95c07cd85c778e4b8cef3ca7abac09b95c709ee5",
		"06afd46bcdfd22ef94ac122aa11f241244a37ecc",
		"htdf1q6hag67dl53wl99vzg42z8eyzfz2xlkvvdns06",
	},
	{
		"025f7117a78150fe2ef97db7cfc83bd57b2e2c0d0dd25eaf467a4a1c2a45ce1486",
		"8030268a04488647a9bc64a8f5bf1cc6db27d300",
		"htdf1sqczdzsyfzry02duvj50t0cucmdj05cqf7vkfz",
	},
	{
		"0379be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798",
		"adde4c73c7b9cee17da6c7b3e2b2eea1a0dcbe67",
		"htdf14h0ycu78h88wzldxc7e79vhw5xsde0n8cz7fz0",
	},
}

func TestFromPubKeyHex(t *testing.T) {
	for _, v := range vectors {
		addr, err := address.FromPubKeyHex(v.pub)
		require.NoError(t, err)
		require.Equal(t, v.addr, addr)
		require.Len(t, addr, address.Len)
		require.True(t, strings.HasPrefix(addr, address.HRP+"1"))

		pub, _ := hex.DecodeString(v.pub)
		require.Equal(t, v.hash, hex.EncodeToString(address.Hash160(pub)))

		// Same input, same output.
		again, err := address.FromPubKeyHex(v.pub)
		require.NoError(t, err)
		require.Equal(t, addr, again)
	}
}

func TestFromPubKeyAnyLength(t *testing.T) {
	addr, err := address.FromPubKey(nil)
	require.NoError(t, err)
	require.Equal(t, "htdf1k3e2yekshkyuzdcx5sfjena3da7rh87tllu8c6", addr)

	addr, err = address.FromPubKey([]byte{0})
	require.NoError(t, err)
	require.Equal(t, "htdf1nalap9kn0mfvpclh7r8ujf97aa8le6mguqek7z", addr)
}

func TestFromPubKeyHexMalformed(t *testing.T) {
	for _, in := range []string{"zz", "abc", "02 79"} {
		_, err := address.FromPubKeyHex(in)
		require.Error(t, err)
		require.True(t, errs.IsDecode(err), in)
	}
}

func TestDecode(t *testing.T) {
	for _, v := range vectors {
		hash, err := address.Decode(v.addr)
		require.NoError(t, err)
		require.Equal(t, v.hash, hex.EncodeToString(hash))
		require.True(t, address.Valid(v.addr))

		again, err := address.Encode(hash)
		require.NoError(t, err)
		require.Equal(t, v.addr, again)
	}

	bad := []string{
		"",
		"htdf1w508d6qejxtdg4y5r3zarvary0c5xw7kxnzkkq",
		"cosmos1w508d6qejxtdg4y5r3zarvary0c5xw7k5vrs2y",
		"htdf1qqqqqqqqqqqqqqqqqqqqgc5sqe",
	}
	for _, in := range bad {
		require.False(t, address.Valid(in), in)
	}
}

func TestAddressSensitivity(t *testing.T) {
	for i := 0; i < 50; i++ {
		key, err := signature.GenerateKey()
		require.NoError(t, err)

		pub, err := signature.CompressedPublicKey(key)
		require.NoError(t, err)

		addr, err := address.FromPubKey(pub)
		require.NoError(t, err)

		_, _, err = bech32.Decode(addr)
		require.NoError(t, err)

		flipped := append([]byte(nil), pub...)
		flipped[i%len(flipped)] ^= 0x01

		other, err := address.FromPubKey(flipped)
		require.NoError(t, err)
		require.NotEqual(t, addr, other)
	}
}
