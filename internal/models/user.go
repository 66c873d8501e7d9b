package models

import (
	"time"

	"github.com/uptrace/bun"
	"golang.org/x/crypto/bcrypt"
)

// User represents an account that owns categories and recipes.
type User struct {
	bun.BaseModel `bun:"table:users"`

	ID           int64     `bun:"user_id,pk,autoincrement" json:"user_id"`
	Username     string    `bun:"username,notnull,unique" json:"username"`
	Email        string    `bun:"email,notnull,unique" json:"email"`
	PasswordHash string    `bun:"password_hash,notnull" json:"-"` // Never expose this to the client
	CreatedAt    time.Time `bun:"created_at,notnull" json:"created_at"`
}

// SetPassword hashes plain with the given bcrypt cost and stores the result.
func (u *User) SetPassword(plain string, cost int) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether plain matches the stored hash.
func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plain)) == nil
}
