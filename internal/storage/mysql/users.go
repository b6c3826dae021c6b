package mysql

import (
	"context"

	"hotel_booking/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
func valInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
func valInt64(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}

func (r *Repo) CreateUser(ctx context.Context, u domain.User) (int64, error) {
	if u.Role == "" {
		u.Role = domain.RoleClient
	}
	return r.insert(ctx, insertUserSQL,
		u.Username,
		u.Password,
		u.Email,
		u.FirstName,
		u.LastName,
		valInt(u.Age),
		valStr(u.Photo),
		string(u.Role),
		valStr(u.Phone),
		valInt64(u.CountryID),
		u.IsActive,
	)
}

func (r *Repo) GetUser(ctx context.Context, id int64) (domain.User, error) {
	var u domain.User
	if err := r.db.GetContext(ctx, &u, selectUserSQL+` WHERE id = ?`, id); err != nil {
		return domain.User{}, translate(err)
	}
	return u, nil
}

func (r *Repo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	var u domain.User
	if err := r.db.GetContext(ctx, &u, selectUserSQL+` WHERE username = ?`, username); err != nil {
		return domain.User{}, translate(err)
	}
	return u, nil
}

func (r *Repo) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM users WHERE username = ?`, username); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *Repo) ListUsers(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	if err := r.db.SelectContext(ctx, &out, selectUserSQL+` ORDER BY id`); err != nil {
		return nil, err
	}
	return out, nil
}
