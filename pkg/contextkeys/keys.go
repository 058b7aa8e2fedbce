package contextkeys

type contextKey string

// SessionIDKey carries the authenticated session id through request contexts.
const SessionIDKey contextKey = "session_id"
