package tx

import "errors"

var (
	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("tx: required parameter is nil")

	// ErrInvalidPayload indicates the payload is empty.
	ErrInvalidPayload = errors.New("tx: invalid payload")

	// ErrPayloadTooLarge indicates the payload exceeds the maximum
	// representable OP_RETURN push length.
	ErrPayloadTooLarge = errors.New("tx: payload too large")

	// ErrInvalidOPReturn indicates the OP_RETURN script is malformed.
	ErrInvalidOPReturn = errors.New("tx: invalid OP_RETURN format")

	// ErrInsufficientFunds indicates the available UTXOs cannot cover the
	// target amount plus fee.
	ErrInsufficientFunds = errors.New("tx: insufficient funds")

	// ErrSigningFailed indicates transaction signing failed.
	ErrSigningFailed = errors.New("tx: signing failed")

	// ErrScriptBuild indicates script construction failed.
	ErrScriptBuild = errors.New("tx: script build failed")
)
