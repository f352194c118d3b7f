// Package errs defines the error taxonomy shared by the signing, transaction
// and address packages. Callers tell "bad input" apart from "crypto engine
// failure" with errors.As or the Is helpers.
package errs

import (
	"errors"
	"fmt"
)

// ArgumentError is returned when an input is nil, empty or undersized. It is
// detected before any cryptographic or validation work happens.
type ArgumentError struct {
	Arg string
	Msg string
}

// NewArgumentError constructs an ArgumentError for the named argument.
func NewArgumentError(arg string, format string, args ...any) *ArgumentError {
	return &ArgumentError{
		Arg: arg,
		Msg: fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface.
func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %s: %s", e.Arg, e.Msg)
}

// =============================================================================

// ValidationError reports a transaction or envelope field that violates its
// domain rule.
type ValidationError struct {
	Field   string // Name of the offending field as it appears on the wire.
	Value   string // The rejected value, rendered for humans.
	Allowed string // The allowed range or literal set.
	Msg     string // Full human readable message.
}

// NewValidationError constructs a ValidationError. The message is built from
// format and args so each rule can phrase its own constraint.
func NewValidationError(field, value, allowed string, format string, args ...any) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Allowed: allowed,
		Msg:     fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Msg
}

// =============================================================================

// Crypto operations reported through CryptoError.
const (
	OpKeyDerivation = "key derivation"
	OpSigning       = "signing"
	OpRecovery      = "recovery"
)

// CryptoError is returned when the underlying curve primitive refuses an
// operation. It is fatal for that call.
type CryptoError struct {
	Op  string
	Err error
}

// NewCryptoError wraps err as a failure of the named crypto operation.
func NewCryptoError(op string, err error) *CryptoError {
	return &CryptoError{
		Op:  op,
		Err: err,
	}
}

// Error implements the error interface.
func (e *CryptoError) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Op, e.Err)
}

// Unwrap provides support for errors.Is and errors.As.
func (e *CryptoError) Unwrap() error {
	return e.Err
}

// =============================================================================

// DecodeError is returned when hex, base64 or bech32 input is malformed.
type DecodeError struct {
	What string
	Err  error
}

// NewDecodeError wraps err as a decoding failure of the named input.
func NewDecodeError(what string, err error) *DecodeError {
	return &DecodeError{
		What: what,
		Err:  err,
	}
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s: %s", e.What, e.Err)
}

// Unwrap provides support for errors.Is and errors.As.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// =============================================================================

// IsArgument checks if an ArgumentError exists in the specified error chain.
func IsArgument(err error) bool {
	var ae *ArgumentError
	return errors.As(err, &ae)
}

// IsValidation checks if a ValidationError exists in the specified error chain.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsCrypto checks if a CryptoError exists in the specified error chain.
func IsCrypto(err error) bool {
	var ce *CryptoError
	return errors.As(err, &ce)
}

// IsDecode checks if a DecodeError exists in the specified error chain.
func IsDecode(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

// GetValidation returns the first ValidationError in the chain, or nil.
func GetValidation(err error) *ValidationError {
	var ve *ValidationError
	if !errors.As(err, &ve) {
		return nil
	}
	return ve
}
