package logger

import "context"

// contextKey keeps the package's context values from colliding with other
// packages' string keys.
type contextKey string

const (
	requestIDKey contextKey = "request_id"
	channelIDKey contextKey = "channel_id"
	exportIDKey  contextKey = "export_id"
)

// WithRequestID attaches the HTTP request ID to the context so SQL logs can
// be correlated with the request that triggered them.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID returns the request ID or "" when none is attached.
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// WithChannelID attaches the sales channel ID an export run works on.
func WithChannelID(ctx context.Context, channelID string) context.Context {
	return context.WithValue(ctx, channelIDKey, channelID)
}

// GetChannelID returns the channel ID or "" when none is attached.
func GetChannelID(ctx context.Context) string {
	if channelID, ok := ctx.Value(channelIDKey).(string); ok {
		return channelID
	}
	return ""
}

// WithExportID attaches the export run ID so queries issued by the run's
// steps carry it in the SQL log.
func WithExportID(ctx context.Context, exportID string) context.Context {
	return context.WithValue(ctx, exportIDKey, exportID)
}

// GetExportID returns the export run ID or "" when none is attached.
func GetExportID(ctx context.Context) string {
	if exportID, ok := ctx.Value(exportIDKey).(string); ok {
		return exportID
	}
	return ""
}
