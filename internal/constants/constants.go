package constants

// Context keys shared between middleware and handlers.
const (
	ContextKeyUserID  = "user_id"
	ContextKeyProject = "project"
	ContextKeyTask    = "task"
)

// Pagination bounds.
const (
	MinPage         = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

const MinPasswordLength = 8
