package signature

import (
	"github.com/adamwoolhether/htdfsign/foundation/blockchain/errs"
)

// ErrorCode is the result code of Sign for callers that branch on codes
// rather than error types.
type ErrorCode int

// Set of result codes for Sign.
const (
	CodeOK ErrorCode = iota
	CodeArgs
	CodeSignFailed
)

// String implements the fmt.Stringer interface.
func (c ErrorCode) String() string {
	switch c {
	case CodeOK:
		return "OK"
	case CodeArgs:
		return "ARGS_ERROR"
	case CodeSignFailed:
		return "SIGN_FAILED"
	}
	return "UNKNOWN"
}

// CodeOf maps an error returned by Sign to its result code.
func CodeOf(err error) ErrorCode {
	switch {
	case err == nil:
		return CodeOK
	case errs.IsArgument(err):
		return CodeArgs
	default:
		return CodeSignFailed
	}
}

// Sign signs digest with privateKey and writes the 64 byte r||s signature into
// out, returning the number of bytes written. Every argument is checked before
// any signing is attempted and out is left untouched on failure.
func Sign(out []byte, digest []byte, privateKey []byte) (int, error) {
	switch {
	case len(digest) == 0:
		return 0, errs.NewArgumentError("digest", "is empty")
	case len(digest) != DigestLen:
		return 0, errs.NewArgumentError("digest", "length %d is not %d bytes", len(digest), DigestLen)
	case len(privateKey) != PrivateKeyLen:
		return 0, errs.NewArgumentError("privateKey", "length is not %d bytes", PrivateKeyLen)
	case out == nil:
		return 0, errs.NewArgumentError("out", "is nil")
	case len(out) < SignatureLen:
		return 0, errs.NewArgumentError("out", "length %d less than %d, must be at least %d", len(out), SignatureLen, SignatureLen)
	}

	sig, _, err := SignRecoverable(digest, privateKey)
	if err != nil {
		return 0, err
	}

	return copy(out, sig), nil
}
