package logger

import (
	"context"
	"time"
)

// contextKey is a private type for context keys to avoid collisions
type contextKey struct{}

// logContextKey is the key for LogContext in context.Context
var logContextKey = contextKey{}

// LogContext holds request-scoped logging context: everything dispatch and
// the connection pipeline know about the transaction currently in flight,
// threaded through so every InfoCtx/WarnCtx/ErrorCtx call along the way
// carries the same identifying fields without having to repeat them.
type LogContext struct {
	TraceID         string    // OpenTelemetry trace ID
	SpanID          string    // OpenTelemetry span ID
	TransactionType uint16    // TRTP transaction type (107, 105, ...)
	UserID          uint16    // Session's protocol user id
	RemoteAddr      string    // Client's remote TCP address
	Account         string    // Backing account login, if authenticated
	StartTime       time.Time // For duration calculation
}

// WithContext returns a new context with the given LogContext
func WithContext(ctx context.Context, lc *LogContext) context.Context {
	return context.WithValue(ctx, logContextKey, lc)
}

// FromContext retrieves the LogContext from context, or nil if not present
func FromContext(ctx context.Context) *LogContext {
	if ctx == nil {
		return nil
	}
	lc, _ := ctx.Value(logContextKey).(*LogContext)
	return lc
}

// NewLogContext creates a new LogContext for a connection at remoteAddr.
func NewLogContext(remoteAddr string) *LogContext {
	return &LogContext{
		RemoteAddr: remoteAddr,
		StartTime:  time.Now(),
	}
}

// Clone creates a copy of the LogContext
func (lc *LogContext) Clone() *LogContext {
	if lc == nil {
		return nil
	}
	return &LogContext{
		TraceID:         lc.TraceID,
		SpanID:          lc.SpanID,
		TransactionType: lc.TransactionType,
		UserID:          lc.UserID,
		RemoteAddr:      lc.RemoteAddr,
		Account:         lc.Account,
		StartTime:       lc.StartTime,
	}
}

// WithTransaction returns a copy with the transaction type set.
func (lc *LogContext) WithTransaction(typ uint16) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.TransactionType = typ
	}
	return clone
}

// WithSession returns a copy with the session's user id and account set.
func (lc *LogContext) WithSession(userID uint16, account string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.UserID = userID
		clone.Account = account
	}
	return clone
}

// WithTrace returns a copy with trace info set
func (lc *LogContext) WithTrace(traceID, spanID string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.TraceID = traceID
		clone.SpanID = spanID
	}
	return clone
}

// DurationMs returns the duration since StartTime in milliseconds
func (lc *LogContext) DurationMs() float64 {
	if lc == nil || lc.StartTime.IsZero() {
		return 0
	}
	return float64(time.Since(lc.StartTime).Microseconds()) / 1000.0
}
