package middleware

type ContextKey string

const (
	ContextAdminID   ContextKey = "admin_id"
	ContextRequestID ContextKey = "request_id"
)
