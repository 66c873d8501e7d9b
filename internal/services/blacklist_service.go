package services

import (
	"context"
	"fmt"
	"time"

	"github.com/isdelr/recipes-be/internal/models"
	"github.com/uptrace/bun"
)

// BlacklistServiceProvider defines the interface for token revocation.
type BlacklistServiceProvider interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
	Revoke(ctx context.Context, jti string) error
}

// BlacklistService stores revoked token identifiers.
type BlacklistService struct {
	db bun.IDB
}

// NewBlacklistService creates a new BlacklistService.
func NewBlacklistService(db bun.IDB) *BlacklistService {
	return &BlacklistService{db: db}
}

// IsRevoked reports whether jti has been revoked.
func (s *BlacklistService) IsRevoked(ctx context.Context, jti string) (bool, error) {
	revoked, err := s.db.NewSelect().Model((*models.BlacklistedToken)(nil)).Where("token = ?", jti).Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("check blacklist: %w", err)
	}
	return revoked, nil
}

// Revoke adds jti to the blacklist. Revoking twice is not an error.
func (s *BlacklistService) Revoke(ctx context.Context, jti string) error {
	entry := &models.BlacklistedToken{Token: jti, BlacklistDate: time.Now().UTC()}
	_, err := s.db.NewInsert().Model(entry).On("CONFLICT (token) DO NOTHING").Returning("NULL").Exec(ctx)
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}
