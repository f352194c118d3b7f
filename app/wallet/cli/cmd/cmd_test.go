package cmd

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adamwoolhether/htdfsign/foundation/blockchain/wallet"
	"github.com/adamwoolhether/htdfsign/foundation/logger"
)

func TestKeyPath(t *testing.T) {
	require.Equal(t, filepath.Join("keys", "kennedy.ecdsa"), keyPath("kennedy", "keys"))
	require.Equal(t, filepath.Join("keys", "kennedy.ecdsa"), keyPath("kennedy.ecdsa", "keys"))
}

func TestKeyGen(t *testing.T) {
	log = logger.NewNop()

	dest := keyPath("pavel", filepath.Join(t.TempDir(), "accounts"))
	require.NoError(t, runKeyGen(dest))

	w, err := wallet.Load(dest)
	require.NoError(t, err)
	require.Len(t, w.Address(), 43)

	// Existing keys are never overwritten.
	require.Error(t, runKeyGen(dest))
}

func TestAddress(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runAddress(&out, "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798", false))
	require.Equal(t, "address: htdf1w508d6qejxtdg4y5r3zarvary0c5xw7kxnzkkw\n", out.String())

	// Any well formed hex derives an address, whatever its length.
	require.NoError(t, runAddress(io.Discard, "0279be", false))

	require.Error(t, runAddress(io.Discard, "0279b", false))
	require.Error(t, runAddress(io.Discard, "zz", false))
}

func TestAddressFromPrivate(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runAddress(&out, "1f1e1d1c1b1a191817161514131211100f0e0d0c0b0a09080706050403020100", true))

	exp := "pubkey: 025f7117a78150fe2ef97db7cfc83bd57b2e2c0d0dd25eaf467a4a1c2a45ce1486\n" +
		"address: htdf1sqczdzsyfzry02duvj50t0cucmdj05cqf7vkfz\n"
	require.Equal(t, exp, out.String())
}
