package constants

// Session and context keys
const (
	SessionCookieName = "cloudtask_session"
	SessionKeyUserUID = "user_uid"

	ContextKeyUserUID   = "user_uid"
	ContextKeyIdentity  = "identity"
	ContextKeyRequestID = "request_id"

	HeaderRequestID = "X-Request-ID"
)

// Pagination limits
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)
