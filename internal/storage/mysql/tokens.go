package mysql

import (
	"context"
	"errors"
	"time"

	"hotel_booking/internal/domain"
)

func (r *Repo) RevokeToken(ctx context.Context, t domain.RevokedToken) error {
	_, err := r.db.ExecContext(ctx, insertRevokedTokenSQL, t.JTI, t.UserID, t.TokenType, t.ExpiresAt.UTC())
	if err = translate(err); errors.Is(err, domain.ErrConflict) {
		return domain.ErrConflict
	}
	return err
}

func (r *Repo) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, revokedTokenSQL, jti); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *Repo) PurgeExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, purgeRevokedTokensSQL, now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
