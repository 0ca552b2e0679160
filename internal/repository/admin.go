package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/Lank-karim/test-gestion-Biblioth-que/internal/errs"
	"github.com/Lank-karim/test-gestion-Biblioth-que/internal/model"
)

func (r *repository) CreateAdmin(ctx context.Context, name, email, passwordHash string) (model.Admin, error) {
	query, args, err := qb.Insert(adminsTableName).
		Columns("name", "email", "password_hash").
		Values(name, email, passwordHash).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Admin{}, err
	}

	var admin model.Admin
	if err := r.db.GetContext(ctx, &admin, query, args...); err != nil {
		if isUniqueViolation(err, "admins_email_key") {
			return model.Admin{}, errs.ErrEmailTaken
		}
		return model.Admin{}, err
	}
	return admin, nil
}

func (r *repository) GetAdminByEmail(ctx context.Context, email string) (model.Admin, error) {
	query, args, err := qb.Select("id", "name", "email", "password_hash", "created_at").
		From(adminsTableName).
		Where(sq.Eq{"email": email}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Admin{}, err
	}

	var admin model.Admin
	if err := r.db.GetContext(ctx, &admin, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Admin{}, errs.ErrNotFound
		}
		return model.Admin{}, err
	}
	return admin, nil
}
