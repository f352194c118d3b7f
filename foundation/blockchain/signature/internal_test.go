package signature

import (
	"bytes"
	"encoding/hex"
	"testing"
)

func TestGenerateKeyRejection(t *testing.T) {
	order, _ := hex.DecodeString("fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141")
	good := bytes.Repeat([]byte{0x42}, 32)

	var stream []byte
	stream = append(stream, make([]byte, 32)...)
	stream = append(stream, order...)
	stream = append(stream, bytes.Repeat([]byte{0xff}, 32)...)
	stream = append(stream, good...)

	key, err := generateKey(bytes.NewReader(stream))
	if err != nil {
		t.Fatalf("Should be able to generate a key: %s", err)
	}

	if !bytes.Equal(key, good) {
		t.Fatalf("Should skip the invalid draws: got %x, exp %x", key, good)
	}
}

func TestGenerateKeyEntropyFailure(t *testing.T) {
	if _, err := generateKey(bytes.NewReader(make([]byte, 40))); err == nil {
		t.Fatal("Should fail once the entropy source runs dry")
	}
}

func TestCurveShared(t *testing.T) {
	if curve() != curve() {
		t.Fatal("Should return the same curve handle on every call")
	}

	pk, err := toECDSA(bytes.Repeat([]byte{0x42}, 32))
	if err != nil {
		t.Fatalf("Should be able to build a private key: %s", err)
	}

	if pk.PublicKey.Curve != curve() {
		t.Fatal("Should derive public keys on the shared curve handle")
	}
}
