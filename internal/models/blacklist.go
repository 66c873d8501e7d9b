package models

import (
	"time"

	"github.com/uptrace/bun"
)

// BlacklistedToken records a revoked token identifier (jti).
type BlacklistedToken struct {
	bun.BaseModel `bun:"table:blacklisted_tokens"`

	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	Token         string    `bun:"token,notnull,unique" json:"token"`
	BlacklistDate time.Time `bun:"blacklist_date,notnull" json:"blacklist_date"`
}
