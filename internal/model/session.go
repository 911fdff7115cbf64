package model

import (
	"time"
)

// PortalSession is a server-held session row. Only the HMAC of the
// token is stored; the raw token lives in the user's cookie.
type PortalSession struct {
	ID        string    `db:"id" json:"id"`
	TokenHash string    `db:"token_hash" json:"-"`
	UserID    int64     `db:"user_id" json:"userId"`
	ExpiresAt time.Time `db:"expires_at" json:"expiresAt"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type CreatePortalSessionParams struct {
	TokenHash string
	UserID    int64
	ExpiresAt time.Time
}
