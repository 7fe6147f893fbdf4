package logger

import "log/slog"

// Standard field keys for structured logging across the daemon. Use these
// keys consistently so logs aggregate and query cleanly regardless of which
// package emits them.
const (
	// Distributed tracing.
	KeyTraceID = "trace_id" // OpenTelemetry trace ID for request correlation
	KeySpanID  = "span_id"  // OpenTelemetry span ID for operation tracking

	// Protocol & transaction.
	KeyTransactionType = "transaction_type" // TRTP transaction type (107, 105, ...)
	KeyRequestID       = "transaction_id"   // Transaction id (echoed on replies)
	KeyErrorCode       = "error_code"       // Wire-level ErrorCode on a reply

	// Session & connection.
	KeyUserID     = "user_id"     // Protocol-visible session user id
	KeySessionID  = "session_id"  // Session identifier (nickname, for log correlation)
	KeyRemoteAddr = "remote_addr" // Client's remote TCP address
	KeyAccount    = "account"     // Backing account login, if authenticated

	// Operation metadata.
	KeyDurationMs = "duration_ms" // Operation duration in milliseconds
	KeyError      = "error"       // Error message
)

// TraceID returns a slog.Attr for OpenTelemetry trace ID.
func TraceID(id string) slog.Attr {
	return slog.String(KeyTraceID, id)
}

// SpanID returns a slog.Attr for OpenTelemetry span ID.
func SpanID(id string) slog.Attr {
	return slog.String(KeySpanID, id)
}

// TransactionType returns a slog.Attr for a TRTP transaction type.
func TransactionType(t uint16) slog.Attr {
	return slog.Any(KeyTransactionType, t)
}

// RequestID returns a slog.Attr for a transaction id.
func RequestID(id uint32) slog.Attr {
	return slog.Any(KeyRequestID, id)
}

// ErrorCode returns a slog.Attr for a wire-level error code.
func ErrorCode(code uint32) slog.Attr {
	return slog.Any(KeyErrorCode, code)
}

// UserID returns a slog.Attr for a session's protocol user id.
func UserID(id uint16) slog.Attr {
	return slog.Any(KeyUserID, id)
}

// SessionID returns a slog.Attr identifying a session for log correlation,
// typically its nickname.
func SessionID(id string) slog.Attr {
	return slog.String(KeySessionID, id)
}

// RemoteAddr returns a slog.Attr for a client's remote address.
func RemoteAddr(addr string) slog.Attr {
	return slog.String(KeyRemoteAddr, addr)
}

// Account returns a slog.Attr for a backing account login.
func Account(login string) slog.Attr {
	return slog.String(KeyAccount, login)
}

// DurationMs returns a slog.Attr for a duration in milliseconds.
func DurationMs(ms float64) slog.Attr {
	return slog.Float64(KeyDurationMs, ms)
}

// Err returns a slog.Attr for an error, or a zero Attr for nil.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}
