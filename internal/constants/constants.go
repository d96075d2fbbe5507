package constants

// Context keys shared by middleware and handlers.
const (
	ContextKeyUser      = "current_user"
	ContextKeyRequestID = "request_id"
)

const (
	HeaderRequestID = "X-Request-ID"
	TokenTypeBearer = "bearer"
)
