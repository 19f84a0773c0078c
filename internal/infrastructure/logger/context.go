package logger

import (
	"context"

	"go.uber.org/zap"
)

// contextKey scopes ledger identifiers stored in a context so they cannot
// collide with keys from other packages.
type contextKey string

const (
	// RequestIDKey identifies one API request across log lines.
	RequestIDKey contextKey = "request_id"
	// CompanyIDKey identifies the tenant a query runs for.
	CompanyIDKey contextKey = "company_id"
	// UserIDKey identifies the acting user.
	UserIDKey contextKey = "user_id"
)

// WithRequestID stores the request ID in ctx and returns a logger that
// stamps it on every entry.
func WithRequestID(ctx context.Context, log *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	return tag(ctx, log, RequestIDKey, requestID)
}

// WithCompanyID stores the tenant company ID alongside the request ID.
func WithCompanyID(ctx context.Context, log *zap.Logger, companyID string) (context.Context, *zap.Logger) {
	return tag(ctx, log, CompanyIDKey, companyID)
}

// WithUserID stores the acting user's ID.
func WithUserID(ctx context.Context, log *zap.Logger, userID string) (context.Context, *zap.Logger) {
	return tag(ctx, log, UserIDKey, userID)
}

func tag(ctx context.Context, log *zap.Logger, key contextKey, value string) (context.Context, *zap.Logger) {
	return context.WithValue(ctx, key, value), log.With(zap.String(string(key), value))
}

// GetRequestID returns the request ID stored in ctx, or "" when absent.
func GetRequestID(ctx context.Context) string {
	return stringValue(ctx, RequestIDKey)
}

// GetCompanyID returns the tenant company ID stored in ctx, or "".
func GetCompanyID(ctx context.Context) string {
	return stringValue(ctx, CompanyIDKey)
}

// GetUserID returns the acting user's ID stored in ctx, or "".
func GetUserID(ctx context.Context) string {
	return stringValue(ctx, UserIDKey)
}

func stringValue(ctx context.Context, key contextKey) string {
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}
