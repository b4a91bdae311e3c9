package userctx

import "context"

// Context key type
type contextKey string

const (
	actorKey       contextKey = "actor"
	requestInfoKey contextKey = "request_info"
)

// Actor identifies the authenticated user performing a request
type Actor struct {
	ID    int64
	Name  string
	Roles []string
}

// HasRole reports whether the actor holds role
func (a Actor) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// RequestInfo holds client metadata captured at request entry
type RequestInfo struct {
	IPAddress string
	UserAgent string
}

// WithActor adds the authenticated actor to the context
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// GetActor retrieves the actor from context.
// The second return value is false for anonymous or system-triggered work.
func GetActor(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey).(Actor)
	return actor, ok
}

// WithRequestInfo adds client IP and user agent to the context.
// The values live exactly as long as the request context does.
func WithRequestInfo(ctx context.Context, ip, userAgent string) context.Context {
	return context.WithValue(ctx, requestInfoKey, RequestInfo{IPAddress: ip, UserAgent: userAgent})
}

// GetRequestInfo retrieves the client metadata for the current request
func GetRequestInfo(ctx context.Context) (RequestInfo, bool) {
	info, ok := ctx.Value(requestInfoKey).(RequestInfo)
	return info, ok
}

// GetIPAddress returns the client IP or "" when no request info is set
func GetIPAddress(ctx context.Context) string {
	if info, ok := GetRequestInfo(ctx); ok {
		return info.IPAddress
	}
	return ""
}
