package core

// SessionID identifies one live client connection.
type SessionID string
