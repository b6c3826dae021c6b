package mysql

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"hotel_booking/internal/domain"
)

type Repo struct{ db *sqlx.DB }

func New(db *sql.DB) *Repo { return &Repo{db: sqlx.NewDb(db, "mysql")} }

// MySQL server error numbers the store translates.
const (
	errDupEntry        = 1062
	errNoReferencedRow = 1452
	errCheckViolated   = 3819
)

// unique/check constraint name -> API field
var constraintFields = map[string]string{
	"uq_countries_name":     "country_name",
	"uq_users_username":     "username",
	"uq_services_name":      "service_name",
	"uq_hotels_postal_code": "postal_code",
	"ck_users_age":          "age",
	"ck_hotels_stars":       "hotel_stars",
	"ck_reviews_stars":      "stars",
}

var (
	reDupKey   = regexp.MustCompile(`for key '(?:[^.']+\.)?([^']+)'`)
	reFKColumn = regexp.MustCompile("FOREIGN KEY \\(`([^`]+)`\\)")
	reCheck    = regexp.MustCompile(`constraint '([^']+)'`)
)

// translate maps driver errors onto the domain error taxonomy.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	var me *mysql.MySQLError
	if !errors.As(err, &me) {
		return err
	}
	switch me.Number {
	case errDupEntry:
		field := "non_field_errors"
		if m := reDupKey.FindStringSubmatch(me.Message); m != nil {
			if f, ok := constraintFields[m[1]]; ok {
				field = f
			}
		}
		ve := domain.NewValidationError(field, "a record with this "+strings.ReplaceAll(field, "_", " ")+" already exists")
		ve.Err = domain.ErrConflict
		return ve
	case errNoReferencedRow:
		field := "non_field_errors"
		if m := reFKColumn.FindStringSubmatch(me.Message); m != nil {
			field = strings.TrimSuffix(m[1], "_id")
		}
		ve := domain.NewValidationError(field, "referenced object does not exist")
		ve.Err = err
		return ve
	case errCheckViolated:
		field := "non_field_errors"
		if m := reCheck.FindStringSubmatch(strings.ToLower(me.Message)); m != nil {
			if f, ok := constraintFields[m[1]]; ok {
				field = f
			}
		}
		ve := domain.NewValidationError(field, "value out of range")
		ve.Err = err
		return ve
	}
	return err
}

func (r *Repo) insert(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, translate(err)
	}
	return res.LastInsertId()
}

func (r *Repo) delete(ctx context.Context, query string, id int64) error {
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return translate(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// likeContains escapes LIKE wildcards and wraps s for a substring match.
func likeContains(s string) string {
	s = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
	return "%" + s + "%"
}

// where accumulates AND-ed predicates and their args.
type where struct {
	preds []string
	args  []any
}

func (w *where) add(pred string, args ...any) {
	w.preds = append(w.preds, pred)
	w.args = append(w.args, args...)
}

func (w *where) String() string {
	if len(w.preds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.preds, " AND ")
}
