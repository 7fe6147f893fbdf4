package trtp

import "errors"

// Codec-layer sentinel errors. These never reach a client directly; the
// connection pipeline and handlers translate them into ErrorCode values or
// close the connection, per the error-handling layering in the transaction
// pipeline design.
var (
	// ErrNeedMore indicates the buffer does not yet contain a complete
	// frame. Callers should read more bytes and retry.
	ErrNeedMore = errors.New("trtp: need more data")

	// ErrTooLarge indicates a transaction's declared data_size exceeds
	// MaxTransactionSize. The connection is not salvageable once this occurs
	// mid-frame, since the declared size cannot be trusted for resync.
	ErrTooLarge = errors.New("trtp: declared size exceeds limit")

	// ErrInvalidFieldData indicates a field's declared size overruns the
	// bytes remaining in the transaction payload.
	ErrInvalidFieldData = errors.New("trtp: invalid field data")

	// ErrInvalidTransactionType indicates a transaction type outside any
	// recognized range. Per policy this is logged and the transaction is
	// dropped rather than closing the connection.
	ErrInvalidTransactionType = errors.New("trtp: invalid transaction type")

	// ErrUTF8 indicates a string-typed field failed UTF-8 validation. Per
	// field-codec policy such fields fall back to Binary rather than
	// erroring, so this is only returned by helpers that require text.
	ErrUTF8 = errors.New("trtp: invalid utf-8 in string field")

	// ErrBadMagic indicates a handshake did not open with "TRTP".
	ErrBadMagic = errors.New("trtp: bad handshake magic")

	// ErrUnsupportedVersion indicates a handshake requested a sub-protocol
	// version this server does not implement.
	ErrUnsupportedVersion = errors.New("trtp: unsupported protocol version")
)
