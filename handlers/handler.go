package handlers

import "github.com/uptrace/bun"

// Handler holds shared dependencies used by all route handlers.
type Handler struct {
	db         *bun.DB
	SessionKey []byte
}

// New creates a Handler with the given database connection and session signing key.
func New(db *bun.DB, sessionKey []byte) *Handler {
	return &Handler{db: db, SessionKey: sessionKey}
}
