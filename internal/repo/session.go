package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/bodega/internal/models"
)

func (r *GormRepo) CreateSession(ctx context.Context, jti, tokenHash string) error {
	return r.DB.WithContext(ctx).Create(&models.AdminSession{
		JTI:       jti,
		TokenHash: tokenHash,
	}).Error
}

// SessionActive reports whether jti exists, matches tokenHash and was not
// revoked.
func (r *GormRepo) SessionActive(ctx context.Context, jti, tokenHash string) (bool, error) {
	var s models.AdminSession
	err := r.DB.WithContext(ctx).Where("jti = ?", jti).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !s.Revoked && s.TokenHash == tokenHash, nil
}

func (r *GormRepo) RevokeSession(ctx context.Context, jti string) error {
	now := time.Now().UTC()
	return r.DB.WithContext(ctx).
		Model(&models.AdminSession{}).
		Where("jti = ? AND revoked = ?", jti, false).
		Updates(map[string]any{"revoked": true, "revoked_at": now}).Error
}
